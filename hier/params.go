// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hier

import "github.com/goki/mat32"

// BoostFunc maps a unit's active duty cycle and the minimum duty cycle
// for its neighborhood onto a boost multiplier for its overlap score.
type BoostFunc func(active, minimum float32) float32

// DefaultBoost is (1 - minimum) + max(0, active - minimum).
func DefaultBoost(active, minimum float32) float32 {
	return (1 - minimum) + mat32.Max(0, active-minimum)
}

// ActivateParams parameterize the competitive activation pass of a stage.
type ActivateParams struct {
	MinPermanence                float32 `def:"0.2" desc:"permanence at or above which a potential connection counts as connected"`
	MinOverlap                   int     `def:"1" min:"0" desc:"minimum number of active connected inputs for a unit to compete at all"`
	DesiredLocalActivity         int     `def:"2" min:"1" desc:"number of winners allowed within each inhibition neighborhood"`
	PermanenceIncrease           float32 `def:"0.05" desc:"permanence increase for connections from active inputs onto winning units"`
	PermanenceDecrease           float32 `def:"0.02" desc:"permanence decrease for connections from inactive inputs onto winning units"`
	MinDutyCycleRatio            float32 `def:"0.01" desc:"minimum duty cycle as a proportion of the neighborhood maximum active duty cycle"`
	ActiveDutyCycleDecay         float32 `def:"0.01" desc:"rate at which the active duty cycle moves toward the current activation"`
	OverlapDutyCycleDecay        float32 `def:"0.01" desc:"rate at which the overlap duty cycle moves toward the current overlap state"`
	SubOverlapPermanenceIncrease float32 `def:"0.05" desc:"permanence bump on all connections of units whose overlap duty cycle falls below the minimum"`
}

func (ap *ActivateParams) Defaults() {
	ap.MinPermanence = 0.2
	ap.MinOverlap = 1
	ap.DesiredLocalActivity = 2
	ap.PermanenceIncrease = 0.05
	ap.PermanenceDecrease = 0.02
	ap.MinDutyCycleRatio = 0.01
	ap.ActiveDutyCycleDecay = 0.01
	ap.OverlapDutyCycleDecay = 0.01
	ap.SubOverlapPermanenceIncrease = 0.05
}

// LearnParams parameterize the learning pass of a stage, run after Activate.
type LearnParams struct {
	On                   bool    `def:"true" desc:"enable learning"`
	MinPermanence        float32 `def:"0.2" desc:"permanence at or above which a connection counts toward a neighbor's MinLearningThreshold"`
	LearningRadius       int     `def:"2" min:"0" desc:"neighborhood radius over which winners share learning with units that nearly won"`
	MinLearningThreshold int     `def:"1" min:"0" desc:"overlap a non-winning neighbor needs to get the shared learning"`
	NeighborScale        float32 `def:"0.5" min:"0" max:"1" desc:"proportion of the winner permanence change applied to neighbors within LearningRadius"`
}

func (lp *LearnParams) Defaults() {
	lp.On = true
	lp.MinPermanence = 0.2
	lp.LearningRadius = 2
	lp.MinLearningThreshold = 1
	lp.NeighborScale = 0.5
}
