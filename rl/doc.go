// Copyright (c) 2020, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package rl provides the temporal-differences credit assignment and replay
machinery for a discrete-action agent whose action values come from an
opaque function approximator (see Estimator).

  - `chain.go` defines `Transition` and `Chain`, a bounded history of past
    transitions, newest first, stored in a ring buffer that owns its slices.
    Once full, inserting a new transition evicts the oldest.

  - `credit.go` computes each step's TD error from the previous step's
    bookkeeping (`Prev`) using a soft bootstrapped target for the previously
    greedy action, records the new transition, and sweeps the error backward
    over the chain with geometric decay (gamma * lambda), applying it to each
    older transition's own exploratory action and recomputing its greedy
    action.  Intermediate targets are not recomputed during the sweep: only
    the scalar error of the newest step is propagated.

  - `rehearse.go` trains the Estimator on minibatches sampled uniformly with
    replacement from the chain, masking the target so that only each sampled
    transition's exploratory action contributes error.

  - `policy.go` has epsilon-greedy action selection and argmax helpers
    (ties go to the lowest index everywhere).
*/
package rl
