// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hier

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/emer/htmrl/grid"
)

// Layer is one Stage in a Hierarchy, with the parameters used to drive it.
type Layer struct {
	Stage Stage          `desc:"the stage implementation"`
	Act   ActivateParams `view:"inline" desc:"activation pass parameters"`
	Lrn   LearnParams    `view:"inline" desc:"learning pass parameters"`
	Boost BoostFunc      `view:"-" json:"-" toml:"-" desc:"boost function -- DefaultBoost if nil"`
}

// Hierarchy is an ordered list of stages, each feeding the next.
type Hierarchy struct {
	Layers []Layer `desc:"stages in bottom-up order"`
	InW    int     `inactive:"+" desc:"width of the input grid to the first stage"`
	InH    int     `inactive:"+" desc:"height of the input grid to the first stage"`
	Built  bool    `inactive:"+" desc:"true once Build has succeeded"`
}

// AddStage appends a stage with default parameters, returning its Layer for
// further configuration.
func (hr *Hierarchy) AddStage(st Stage) *Layer {
	ly := Layer{Stage: st}
	ly.Act.Defaults()
	ly.Lrn.Defaults()
	hr.Layers = append(hr.Layers, ly)
	hr.Built = false
	return &hr.Layers[len(hr.Layers)-1]
}

// Build validates that every stage input shape matches the output shape of
// the stage below it, starting from an input grid of inW x inH.
// An empty hierarchy is valid and passes its input straight through.
func (hr *Hierarchy) Build(inW, inH int) error {
	hr.Built = false
	if inW <= 0 || inH <= 0 {
		return fmt.Errorf("hier.Build: input shape %d x %d must be positive", inW, inH)
	}
	hr.InW, hr.InH = inW, inH
	w, h := inW, inH
	for li := range hr.Layers {
		ly := &hr.Layers[li]
		if ly.Stage == nil {
			return fmt.Errorf("hier.Build: layer %d has no stage", li)
		}
		iw, ih := ly.Stage.InputShape()
		if iw != w || ih != h {
			err := fmt.Errorf("hier.Build: stage %s (%d) input shape %d x %d does not match %d x %d from below", ly.Stage.Name(), li, iw, ih, w, h)
			log.Println(err)
			return err
		}
		w, h = ly.Stage.Shape()
		if w <= 0 || h <= 0 {
			return fmt.Errorf("hier.Build: stage %s (%d) has empty output shape %d x %d", ly.Stage.Name(), li, w, h)
		}
		if ly.Boost == nil {
			ly.Boost = DefaultBoost
		}
	}
	hr.Built = true
	return nil
}

// OutShape returns the shape of the final output grid.
func (hr *Hierarchy) OutShape() (width, height int) {
	if len(hr.Layers) == 0 {
		return hr.InW, hr.InH
	}
	return hr.Layers[len(hr.Layers)-1].Stage.Shape()
}

// Step runs BeginStep, Activate and Learn on each stage in order, feeding each
// stage's output to the next, and returns the final output grid.
// The returned grid is owned by the last stage (or is in itself).
func (hr *Hierarchy) Step(in *grid.Bools, rng *rand.Rand) *grid.Bools {
	cur := in
	for li := range hr.Layers {
		ly := &hr.Layers[li]
		ly.Stage.BeginStep()
		ly.Stage.Activate(cur, &ly.Act, ly.Boost)
		if ly.Lrn.On {
			ly.Stage.Learn(&ly.Lrn, rng)
		}
		cur = ly.Stage.Output()
	}
	return cur
}
