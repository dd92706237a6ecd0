// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package critic

import (
	"math/rand"

	"github.com/emer/emergent/erand"
	"github.com/emer/htmrl/dist"
)

// Params are the construction parameters for a Network.
type Params struct {
	NHidden    int             `def:"1" min:"0" desc:"number of hidden layers"`
	HiddenSize int             `def:"16" min:"1" desc:"number of units in each hidden layer"`
	WtInit     erand.RndParams `view:"inline" desc:"initial weight distribution -- Var is the standard deviation for Gaussian, half-range for Uniform"`
	RMSEps     float32         `def:"1e-6" desc:"added to the mean squared gradient before the square root, to keep the step finite"`
}

func (cp *Params) Defaults() {
	cp.NHidden = 1
	cp.HiddenSize = 16
	cp.WtInit.Dist = erand.Gaussian
	cp.WtInit.Mean = 0
	cp.WtInit.Var = 0.1
	cp.RMSEps = 1e-6
}

// GenWt draws one initial weight from the WtInit distribution using rng.
func (cp *Params) GenWt(rng *rand.Rand) float32 {
	return dist.Gen32(&cp.WtInit, rng)
}
