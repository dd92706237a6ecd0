// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package agent runs the online control loop of a discrete-action agent.

Each Step encodes the sensory frame in Agent.Input into a dot grid, drives
it through the feature hierarchy, condenses the final output into the state
vector, evaluates the action values, assigns credit for the reward to the
previous step over the replay chain, rehearses the estimator on the chain,
re-evaluates, and picks the next action epsilon-greedily.

An Agent is not safe for concurrent use.  Agents share nothing, so several
may run in parallel as long as each has its own random source.
*/
package agent

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/emer/etable/etensor"
	"github.com/emer/htmrl/critic"
	"github.com/emer/htmrl/grid"
	"github.com/emer/htmrl/hier"
	"github.com/emer/htmrl/rl"
	"github.com/emer/htmrl/spatial"
)

// Stats are the diagnostic values of the last Step.
type Stats struct {
	Step    int     `desc:"number of steps taken since Init, including the last one"`
	Reward  float32 `desc:"reward passed to the last step"`
	TDErr   float32 `desc:"scaled TD error applied to the previous step's transition"`
	GreedyQ float32 `desc:"post-rehearsal value of the greedy action"`
	ChosenQ float32 `desc:"post-rehearsal value of the chosen action"`
	Greedy  int     `desc:"greedy action"`
	Chosen  int     `desc:"chosen action"`
}

// Agent is one independent learner.
type Agent struct {
	Cfg   Config          `desc:"construction configuration"`
	Input etensor.Float32 `desc:"sensory frame, shape [2, InputHeight, InputWidth] (Chan, Y, X) -- written by the caller before each Step"`
	Dots  grid.Bools      `desc:"encoded dot grid of the last step"`
	Hier  hier.Hierarchy  `desc:"feature hierarchy"`
	Est   rl.Estimator    `desc:"action value estimator"`
	State []float32       `desc:"condensed state vector of the last step"`
	Q     []float32       `desc:"action values of the last step, post-rehearsal after Step returns"`
	Stats Stats           `desc:"diagnostics of the last step"`

	chain     *rl.Chain
	prev      rl.Prev
	rehearser rl.Rehearser
}

// compile-time check that the default estimator satisfies rl.Estimator
var _ rl.Estimator = (*critic.Network)(nil)

// New builds an agent with spatial.Region stages from cfg.Regions and a
// critic.Network estimator, all initialized from rng.  Unnamed regions are
// named by position in the agent's copy of cfg; cfg itself is not modified.
func New(cfg *Config, rng *rand.Rand) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cf := *cfg
	cf.Regions = append([]spatial.Desc(nil), cfg.Regions...)
	w, h := cf.DotsSize()
	layers := make([]hier.Layer, len(cf.Regions))
	for i := range cf.Regions {
		ds := &cf.Regions[i]
		if ds.Name == "" {
			ds.Name = fmt.Sprintf("Region%d", i)
		}
		rg, err := spatial.NewRegion(w, h, ds, rng)
		if err != nil {
			return nil, err
		}
		layers[i] = ds.Layer(rg)
		w, h = rg.Shape()
	}
	est, err := critic.New(cf.Condense.Len(w, h), cf.NActions, &cf.Critic, rng)
	if err != nil {
		return nil, err
	}
	return NewFromParts(&cf, layers, est)
}

// NewFromParts builds an agent from caller-supplied stages and estimator.
// The stages must chain from the dot grid shape, and the estimator must take
// the condensed output of the last stage and produce cfg.NActions values.
func NewFromParts(cfg *Config, layers []hier.Layer, est rl.Estimator) (*Agent, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ag := &Agent{Cfg: *cfg, Est: est}
	ag.Cfg.Regions = append([]spatial.Desc(nil), cfg.Regions...)
	ag.Hier.Layers = layers
	dw, dh := cfg.DotsSize()
	if err := ag.Hier.Build(dw, dh); err != nil {
		return nil, err
	}
	ow, oh := ag.Hier.OutShape()
	nst := cfg.Condense.Len(ow, oh)
	if est.NumInputs() != nst {
		return nil, fmt.Errorf("agent: estimator takes %d inputs, condensed state has %d (%d x %d output in %d x %d blocks)", est.NumInputs(), nst, ow, oh, cfg.Condense.Width, cfg.Condense.Height)
	}
	if est.NumOutputs() != cfg.NActions {
		return nil, fmt.Errorf("agent: estimator has %d outputs, want %d actions", est.NumOutputs(), cfg.NActions)
	}
	ag.Input.SetShape([]int{2, cfg.InputHeight, cfg.InputWidth}, nil, []string{"Chan", "Y", "X"})
	ag.Dots.SetShape(dw, dh)
	ag.State = make([]float32, nst)
	ag.Q = make([]float32, cfg.NActions)
	ag.chain = rl.NewChain(cfg.Replay.MaxChain)
	ag.Init()
	return ag, nil
}

// Init starts a new run: clears the replay chain, the bookkeeping carried
// between steps and the stats.  Stage and estimator weights are kept.
func (ag *Agent) Init() {
	ag.chain.Reset()
	ag.prev.Init(len(ag.State), ag.Cfg.NActions)
	ag.Stats = Stats{}
}

// StateSize returns the length of the condensed state vector.
func (ag *Agent) StateSize() int { return len(ag.State) }

// Chain returns the replay chain.
func (ag *Agent) Chain() *rl.Chain { return ag.chain }

// Prev returns the bookkeeping carried to the next step.
func (ag *Agent) Prev() *rl.Prev { return &ag.prev }

// Step runs one control step on the frame in ag.Input, given the reward for
// the previous action, and returns the chosen action.  If condensed is
// non-nil it receives a copy of the state vector.  rng is used for stage
// learning, rehearsal sampling and action selection.
func (ag *Agent) Step(reward float32, sp *StepParams, rng *rand.Rand, condensed []float32) int {
	ag.Cfg.Encode.Encode(&ag.Input, &ag.Dots)
	out := ag.Hier.Step(&ag.Dots, rng)
	ag.Cfg.Condense.Condense(out, ag.State)
	if condensed != nil {
		copy(condensed, ag.State)
	}

	ag.Est.Evaluate(ag.State, ag.Q)
	nextMaxQ := rl.Max(ag.Q)

	ag.Stats.Step++
	td := sp.TD()
	ag.Stats.TDErr = ag.chain.Credit(&ag.prev, reward, nextMaxQ, &td, ag.Stats.Step)

	op := sp.Opt()
	ag.rehearser.Rehearse(ag.Est, ag.chain, &ag.Cfg.Replay.Rehearse, &op, rng)

	ag.Est.Evaluate(ag.State, ag.Q)
	chosen, greedy := rl.EpsilonGreedy(ag.Q, sp.Epsilon, rng)
	ag.prev.Set(ag.State, ag.Q, greedy, chosen)

	ag.Stats.Reward = reward
	ag.Stats.Greedy = greedy
	ag.Stats.Chosen = chosen
	ag.Stats.GreedyQ = ag.Q[greedy]
	ag.Stats.ChosenQ = ag.Q[chosen]
	return chosen
}

// SizeReport returns a string reporting the size of each stage, the
// estimator and the replay chain.
func (ag *Agent) SizeReport() string {
	var b strings.Builder
	for li := range ag.Hier.Layers {
		st := ag.Hier.Layers[li].Stage
		if sr, ok := st.(interface{ SizeReport() string }); ok {
			b.WriteString(sr.SizeReport())
		} else {
			w, h := st.Shape()
			fmt.Fprintf(&b, "%14s:\t Shape: %d x %d\n", st.Name(), w, h)
		}
	}
	if sr, ok := ag.Est.(interface{ SizeReport() string }); ok {
		b.WriteString(sr.SizeReport())
	}
	fmt.Fprintf(&b, "%14s:\t Len: %d / %d\t Mem: %s\n", "Chain", ag.chain.Len(), ag.chain.Max, (datasize.ByteSize)(ag.chain.MemBytes()).HumanReadable())
	return b.String()
}
