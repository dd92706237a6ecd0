// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rl

// Transition is one recorded step of experience.  QValues and Greedy are
// updated in place by later credit assignment sweeps; rehearsal only reads.
type Transition struct {
	State       []float32 `desc:"condensed state vector the agent was in"`
	Exploratory int       `desc:"action actually taken"`
	Greedy      int       `desc:"argmax of QValues, lowest index on ties"`
	Reward      float32   `desc:"reward received after taking the action"`
	QValues     []float32 `desc:"action-value targets for State"`
	Step        int       `desc:"agent step counter when the transition was recorded"`
}

// CopyFrom copies src into tr, reusing tr's slices where they are large enough.
func (tr *Transition) CopyFrom(src *Transition) {
	tr.State = append(tr.State[:0], src.State...)
	tr.QValues = append(tr.QValues[:0], src.QValues...)
	tr.Exploratory = src.Exploratory
	tr.Greedy = src.Greedy
	tr.Reward = src.Reward
	tr.Step = src.Step
}

// Chain is a bounded, time-ordered history of transitions, newest at
// position 0.  It is a ring buffer: storage is allocated once and slots are
// reused as old transitions are evicted, so pointers returned by At are only
// valid until the next PushFront.
type Chain struct {
	Max   int          `desc:"maximum number of transitions kept"`
	items []Transition // ring storage
	head  int          // slot of the newest transition
	n     int          // number of valid transitions

	scratch Transition // staging for the transition built by Credit
}

// NewChain returns an empty chain holding at most max transitions.
func NewChain(max int) *Chain {
	ch := &Chain{}
	ch.Init(max)
	return ch
}

// Init sets the capacity and empties the chain.
func (ch *Chain) Init(max int) {
	if max < 1 {
		max = 1
	}
	ch.Max = max
	ch.items = make([]Transition, max)
	ch.head = max - 1
	ch.n = 0
}

// Reset empties the chain, keeping its storage.
func (ch *Chain) Reset() {
	ch.head = ch.Max - 1
	ch.n = 0
}

// Len returns the number of transitions in the chain.
func (ch *Chain) Len() int { return ch.n }

// At returns the transition at position i, 0 = newest, Len()-1 = oldest.
func (ch *Chain) At(i int) *Transition {
	if i < 0 || i >= ch.n {
		return nil
	}
	return &ch.items[(ch.head-i+ch.Max)%ch.Max]
}

// PushFront inserts a copy of tr as the newest transition.  If the chain
// was full, the oldest transition is evicted and true is returned.
func (ch *Chain) PushFront(tr *Transition) bool {
	ch.head = (ch.head + 1) % ch.Max
	ch.items[ch.head].CopyFrom(tr)
	if ch.n < ch.Max {
		ch.n++
		return false
	}
	return true
}

// Oldest returns the oldest transition, or nil if empty.
func (ch *Chain) Oldest() *Transition { return ch.At(ch.n - 1) }

// Newest returns the newest transition, or nil if empty.
func (ch *Chain) Newest() *Transition { return ch.At(0) }

// MemBytes returns the number of bytes held in transition value slices.
func (ch *Chain) MemBytes() int {
	n := 0
	for i := range ch.items {
		tr := &ch.items[i]
		n += 4 * (cap(tr.State) + cap(tr.QValues))
	}
	return n
}
