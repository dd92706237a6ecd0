// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rl

import (
	"math/rand"

	"github.com/goki/mat32"
)

// Argmax returns the index of the largest value, lowest index on ties.
// Returns 0 for an empty slice.
func Argmax(q []float32) int {
	mi := 0
	for i := 1; i < len(q); i++ {
		if q[i] > q[mi] {
			mi = i
		}
	}
	return mi
}

// Max returns the largest value in q, or 0 if q is empty.
func Max(q []float32) float32 {
	if len(q) == 0 {
		return 0
	}
	mx := q[0]
	for _, v := range q[1:] {
		mx = mat32.Max(mx, v)
	}
	return mx
}

// EpsilonGreedy returns the greedy action of q and the chosen action, which
// with probability eps is a uniformly random index instead.  One uniform
// draw is always consumed, and a second one when exploring.
func EpsilonGreedy(q []float32, eps float32, rng *rand.Rand) (chosen, greedy int) {
	greedy = Argmax(q)
	chosen = greedy
	if rng.Float32() < eps {
		chosen = rng.Intn(len(q))
	}
	return
}
