// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rl

import "math/rand"

// Estimator is a differentiable mapping from state vectors to action values
// with a minibatch training interface.  The gradient accumulates in the
// direction that reduces squared error against the target, and
// MoveAlongGradientRMS consumes it as one optimizer step.
type Estimator interface {
	// NumInputs is the length of the state vector.
	NumInputs() int

	// NumOutputs is the number of actions.
	NumOutputs() int

	// Evaluate writes the action values for state in into out.
	Evaluate(in, out []float32)

	// ClearGradient zeros the gradient accumulator.
	ClearGradient()

	// AccumulateGradient adds the squared-error gradient of in against target.
	AccumulateGradient(in, target []float32)

	// ScaleGradient multiplies the accumulated gradient by f.
	ScaleGradient(f float32)

	// MoveAlongGradientRMS applies one RMS-normalized step with momentum.
	MoveAlongGradientRMS(decay, rate, momentum float32)
}

// RehearseParams control minibatch rehearsal over the chain.
type RehearseParams struct {
	Passes    int `def:"50" min:"0" desc:"number of optimizer steps per agent step"`
	Minibatch int `def:"16" min:"1" desc:"number of transitions sampled (with replacement) per optimizer step"`
}

func (rp *RehearseParams) Defaults() {
	rp.Passes = 50
	rp.Minibatch = 16
}

// OptParams are the estimator optimizer parameters for each rehearsal pass.
type OptParams struct {
	Rate     float32 `def:"0.05" min:"0" desc:"learning rate of each RMS step"`
	RMSDecay float32 `def:"0.95" min:"0" max:"1" desc:"decay of the running mean squared gradient"`
	Momentum float32 `def:"0" min:"0" max:"1" desc:"fraction of the previous step added to the current one"`
}

func (op *OptParams) Defaults() {
	op.Rate = 0.05
	op.RMSDecay = 0.95
	op.Momentum = 0
}

// Rehearser trains an Estimator on transitions sampled from a Chain.
// It owns the scratch buffers used for targets, so one Rehearser per agent.
type Rehearser struct {
	target []float32
}

// Rehearse runs rp.Passes optimizer steps.  Each pass draws rp.Minibatch
// transitions uniformly with replacement from the current chain contents,
// trains each toward the estimator's own output with only the transition's
// exploratory action replaced by its stored value, scales the gradient by
// 1/Minibatch and applies one step.  An empty chain is a no-op.
func (rh *Rehearser) Rehearse(est Estimator, ch *Chain, rp *RehearseParams, op *OptParams, rng *rand.Rand) {
	n := ch.Len()
	if n == 0 || rp.Minibatch < 1 {
		return
	}
	rh.target = resize(rh.target, est.NumOutputs())
	scale := 1 / float32(rp.Minibatch)
	for p := 0; p < rp.Passes; p++ {
		est.ClearGradient()
		for b := 0; b < rp.Minibatch; b++ {
			tr := ch.At(rng.Intn(n))
			est.Evaluate(tr.State, rh.target)
			rh.target[tr.Exploratory] = tr.QValues[tr.Exploratory]
			est.AccumulateGradient(tr.State, rh.target)
		}
		est.ScaleGradient(scale)
		est.MoveAlongGradientRMS(op.RMSDecay, op.Rate, op.Momentum)
	}
}
