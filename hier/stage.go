// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package hier drives an ordered stack of feature-extraction stages.

Each stage consumes the binary output grid of the stage below (the first
consumes the encoded dot grid) and produces its own binary grid.  The
algorithms inside a stage are opaque here: any type implementing Stage can
be stacked, e.g., spatial.Region for learned sparse features, or FixedStage
to pin the hierarchy output in tests.  Hierarchy only validates that the
shapes chain together and calls the per-step hooks in order.
*/
package hier

import (
	"math/rand"

	"github.com/emer/htmrl/grid"
)

// Stage is one feature-extraction stage.
type Stage interface {
	// Name returns the stage name, used in error messages and reports.
	Name() string

	// InputShape returns the width, height of the grid the stage consumes.
	InputShape() (width, height int)

	// Shape returns the width, height of the stage output grid.
	Shape() (width, height int)

	// BeginStep is called at the start of every step, before Activate.
	BeginStep()

	// Activate runs the competitive activation pass on the input grid,
	// using boost to bias under-active units toward selection.
	Activate(in *grid.Bools, ap *ActivateParams, boost BoostFunc)

	// Learn runs the learning pass, after Activate.
	Learn(lp *LearnParams, rng *rand.Rand)

	// Output returns the current output grid, which the stage owns.
	Output() *grid.Bools
}
