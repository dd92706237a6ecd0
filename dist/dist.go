// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dist draws values described by erand.RndParams from an explicit
// random source, so each agent can own its own stream.
package dist

import (
	"math/rand"

	"github.com/emer/emergent/erand"
)

// Gen returns one value from rp using rng.  Var is the standard deviation
// for Gaussian and the half-range for Uniform.  Mean is returned for any
// other distribution, without drawing.
func Gen(rp *erand.RndParams, rng *rand.Rand) float64 {
	switch rp.Dist {
	case erand.Gaussian:
		return rp.Mean + rp.Var*rng.NormFloat64()
	case erand.Uniform:
		return rp.Mean + rp.Var*2*(rng.Float64()-0.5)
	}
	return rp.Mean
}

// Gen32 is Gen as a float32.
func Gen32(rp *erand.RndParams, rng *rand.Rand) float32 {
	return float32(Gen(rp, rng))
}
