// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package agent

import "github.com/emer/htmrl/rl"

// StepParams are the learning, discount and exploration parameters passed
// to each Step.  They may change from step to step (e.g., annealed Epsilon).
type StepParams struct {
	QAlpha          float32 `def:"0.5" min:"0" desc:"learning rate on the TD error written into the replay chain"`
	BackpropAlpha   float32 `def:"0.05" min:"0" desc:"value estimator learning rate for each rehearsal pass"`
	RMSDecay        float32 `def:"0.95" min:"0" max:"1" desc:"decay of the estimator's running mean squared gradient"`
	Momentum        float32 `def:"0" min:"0" max:"1" desc:"estimator momentum"`
	Gamma           float32 `def:"0.99" min:"0" max:"1" desc:"discount factor"`
	Lambda          float32 `def:"0.95" min:"0" max:"1" desc:"trace decay over the replay chain"`
	TauInv          float32 `def:"1" min:"0" max:"1" desc:"soft update rate toward the bootstrapped target"`
	Epsilon         float32 `def:"0.1" min:"0" max:"1" desc:"probability of choosing a uniformly random action"`
	WeightDecayMult float32 `def:"1" desc:"reserved: estimator weight decay multiplier, currently has no effect"`
}

func (sp *StepParams) Defaults() {
	sp.QAlpha = 0.5
	sp.BackpropAlpha = 0.05
	sp.RMSDecay = 0.95
	sp.Momentum = 0
	sp.Gamma = 0.99
	sp.Lambda = 0.95
	sp.TauInv = 1
	sp.Epsilon = 0.1
	sp.WeightDecayMult = 1
}

// TD returns the credit assignment parameters.
func (sp *StepParams) TD() rl.TDParams {
	return rl.TDParams{QAlpha: sp.QAlpha, Gamma: sp.Gamma, Lambda: sp.Lambda, TauInv: sp.TauInv}
}

// Opt returns the rehearsal optimizer parameters.
func (sp *StepParams) Opt() rl.OptParams {
	return rl.OptParams{Rate: sp.BackpropAlpha, RMSDecay: sp.RMSDecay, Momentum: sp.Momentum}
}
