// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rl

// TDParams are the temporal-differences parameters for credit assignment.
type TDParams struct {
	QAlpha float32 `def:"0.5" min:"0" desc:"learning rate applied to the TD error before it is written into action values"`
	Gamma  float32 `def:"0.99" min:"0" max:"1" desc:"discount factor for the bootstrapped next-state value"`
	Lambda float32 `def:"0.95" min:"0" max:"1" desc:"trace decay -- each older transition gets a further factor of Gamma * Lambda of the current error"`
	TauInv float32 `def:"1" min:"0" max:"1" desc:"soft update rate toward the bootstrapped target: 1 = full backup, smaller values move the greedy value only part way"`
}

func (tp *TDParams) Defaults() {
	tp.QAlpha = 0.5
	tp.Gamma = 0.99
	tp.Lambda = 0.95
	tp.TauInv = 1
}

// Decay returns the per-transition trace factor Gamma * Lambda.
func (tp *TDParams) Decay() float32 {
	return tp.Gamma * tp.Lambda
}

// Prev is the bookkeeping carried from one step to the next.
// All fields are zero before the first step.
type Prev struct {
	State       []float32 `desc:"state vector of the previous step"`
	Greedy      int       `desc:"greedy action of the previous step"`
	Exploratory int       `desc:"action actually taken on the previous step"`
	QValues     []float32 `desc:"post-rehearsal action values of the previous step"`
}

// Init sizes the slices and zeros all values.
func (pv *Prev) Init(nState, nActions int) {
	pv.State = resize(pv.State, nState)
	pv.QValues = resize(pv.QValues, nActions)
	for i := range pv.State {
		pv.State[i] = 0
	}
	for i := range pv.QValues {
		pv.QValues[i] = 0
	}
	pv.Greedy = 0
	pv.Exploratory = 0
}

// Set records this step's state, action values and actions.
func (pv *Prev) Set(state, q []float32, greedy, chosen int) {
	pv.State = append(pv.State[:0], state...)
	pv.QValues = append(pv.QValues[:0], q...)
	pv.Greedy = greedy
	pv.Exploratory = chosen
}

// Target returns the soft bootstrapped target for the previously greedy action:
// Q[a*] + TauInv * (reward + Gamma * nextMaxQ - Q[a*]).
func (tp *TDParams) Target(prev *Prev, reward, nextMaxQ float32) float32 {
	qg := prev.QValues[prev.Greedy]
	return qg + tp.TauInv*(reward+tp.Gamma*nextMaxQ-qg)
}

// Credit assigns this step's reward to the previous step.  It computes the
// TD error against the action that was actually taken, records the previous
// step as a new transition whose exploratory value is shifted by that error,
// sweeps a geometrically decaying share of the same error back over every
// existing transition (each on its own exploratory action, recomputing its
// greedy action), and finally inserts the new transition at the front,
// evicting the oldest if the chain is full.  The scalar error is returned.
//
// Older transitions' targets are not recomputed: only the newest error is
// propagated.
func (ch *Chain) Credit(prev *Prev, reward, nextMaxQ float32, tp *TDParams, step int) float32 {
	target := tp.Target(prev, reward, nextMaxQ)
	delta := tp.QAlpha * (target - prev.QValues[prev.Exploratory])

	decay := tp.Decay()
	g := decay
	for i := 0; i < ch.n; i++ {
		tr := ch.At(i)
		tr.QValues[tr.Exploratory] += g * delta
		tr.Greedy = Argmax(tr.QValues)
		g *= decay
	}

	tr := &ch.scratch
	tr.State = append(tr.State[:0], prev.State...)
	tr.QValues = append(tr.QValues[:0], prev.QValues...)
	tr.QValues[prev.Exploratory] += delta
	tr.Exploratory = prev.Exploratory
	tr.Greedy = prev.Greedy
	tr.Reward = reward
	tr.Step = step
	ch.PushFront(tr)
	return delta
}

func resize(s []float32, n int) []float32 {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]float32, n)
}
