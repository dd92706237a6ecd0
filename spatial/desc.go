// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spatial

import (
	"github.com/emer/emergent/erand"
	"github.com/emer/htmrl/hier"
)

// Desc describes one Region: its shape, connectivity and the parameters
// used to drive it within a hierarchy.
type Desc struct {
	Name             string              `desc:"region name"`
	Width            int                 `def:"16" min:"1" desc:"number of columns along X"`
	Height           int                 `def:"16" min:"1" desc:"number of columns along Y"`
	ConnectionRadius int                 `def:"2" min:"0" desc:"radius, in input cells, of each column's receptive field around its mapped input position"`
	InhibitionRadius int                 `def:"2" min:"0" desc:"radius, in columns, of the neighborhood within which columns compete"`
	Perm             erand.RndParams     `view:"inline" desc:"initial permanence distribution of potential connections -- Mean should sit near the connected threshold"`
	DistBias         float32             `def:"0.1" desc:"permanence bonus for connections at the center of the receptive field, falling off with distance"`
	DistFalloff      float32             `def:"0.5" min:"0" desc:"rate per input cell at which DistBias falls off away from the center"`
	BiasFloor        float32             `def:"0" desc:"lowest proportion of DistBias applied, however far the connection is from the center"`
	Act              hier.ActivateParams `view:"inline" desc:"activation pass parameters"`
	Lrn              hier.LearnParams    `view:"inline" desc:"learning pass parameters"`
	Boost            hier.BoostFunc      `view:"-" json:"-" toml:"-" desc:"boost function -- hier.DefaultBoost if nil"`
}

func (ds *Desc) Defaults() {
	ds.Width = 16
	ds.Height = 16
	ds.ConnectionRadius = 2
	ds.InhibitionRadius = 2
	ds.Perm.Dist = erand.Gaussian
	ds.Perm.Mean = 0.2
	ds.Perm.Var = 0.05
	ds.DistBias = 0.1
	ds.DistFalloff = 0.5
	ds.BiasFloor = 0
	ds.Act.Defaults()
	ds.Lrn.Defaults()
}

// Layer returns the hier.Layer that drives rg with this Desc's parameters.
func (ds *Desc) Layer(rg *Region) hier.Layer {
	return hier.Layer{Stage: rg, Act: ds.Act, Lrn: ds.Lrn, Boost: ds.Boost}
}
