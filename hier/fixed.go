// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hier

import (
	"math/rand"

	"github.com/emer/htmrl/grid"
)

// FixedStage is a Stage whose output never changes, regardless of its input.
// It pins the hierarchy content so the rest of the control loop can be
// exercised in isolation.
type FixedStage struct {
	Nm     string     `desc:"name of the stage"`
	InW    int        `desc:"expected input width"`
	InH    int        `desc:"expected input height"`
	Out    grid.Bools `desc:"fixed output grid"`
	NSteps int        `inactive:"+" desc:"number of BeginStep calls"`
}

// NewFixedStage returns a FixedStage that expects inW x inH input and
// always outputs a copy of out.
func NewFixedStage(name string, inW, inH int, out *grid.Bools) *FixedStage {
	fs := &FixedStage{Nm: name, InW: inW, InH: inH}
	fs.Out.CopyFrom(out)
	return fs
}

func (fs *FixedStage) Name() string                                                 { return fs.Nm }
func (fs *FixedStage) InputShape() (width, height int)                              { return fs.InW, fs.InH }
func (fs *FixedStage) Shape() (width, height int)                                   { return fs.Out.Width, fs.Out.Height }
func (fs *FixedStage) BeginStep()                                                   { fs.NSteps++ }
func (fs *FixedStage) Activate(in *grid.Bools, ap *ActivateParams, boost BoostFunc) {}
func (fs *FixedStage) Learn(lp *LearnParams, rng *rand.Rand)                        {}
func (fs *FixedStage) Output() *grid.Bools                                          { return &fs.Out }
