// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package htmrl is the overall repository for an online reinforcement learning
agent with discrete actions, whose state comes from a hierarchy of sparse
binary feature extractors.

This top-level of the repository has no functional code -- everything is organized
into the following sub-repositories:

* agent: the control loop.  Each Step encodes the sensory frame, drives the
feature hierarchy, condenses its output into a state vector, assigns credit
over the replay chain, rehearses the value estimator and selects the next
action epsilon-greedily.

* rl: the replay chain, temporal-differences credit assignment with a
decaying trace over past transitions, minibatch rehearsal, and action
selection.

* encode, hier, spatial, condense: the perception pipeline -- population code
encoding into a dot grid, the ordered stack of stages, a learned spatial
pooling stage, and block-average condensing.

* critic: the default value estimator, a small multi-layer network trained by
RMS-normalized gradient steps.

* runlog: per-step diagnostic logs in an etable, CSV and SQLite.

* examples: these actually compile into runnable programs and provide the starting
point for your own agents.  examples/pursuit trains an agent to chase a
target on a grid.
*/
package htmrl
