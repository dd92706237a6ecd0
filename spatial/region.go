// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package spatial is a learned feature-extraction stage: a sheet of columns
that compete for a sparse activation over a binary input grid.

Each column has potential connections onto a square receptive field in the
input, each with a permanence in [0, 1]; a connection is connected when its
permanence is at or above MinPermanence.  On Activate a column's overlap is
the number of connected active inputs (zero below MinOverlap), multiplied by
its boost, and a column wins when fewer than DesiredLocalActivity of its
neighbors within InhibitionRadius beat it (higher overlap, or equal overlap
and lower index).  Duty cycles track how often each column wins and how
often it reaches MinOverlap, and the boost of each column is recomputed
from its active duty cycle and the neighborhood minimum.

Learn moves the permanences of the winners toward the current input,
shares a scaled version of that change with nearly-winning neighbors within
LearningRadius (those with at least MinLearningThreshold active inputs
connected at the learning MinPermanence), and bumps all permanences of columns whose overlap duty
cycle has fallen below the minimum.
*/
package spatial

import (
	"fmt"
	"math/rand"

	"github.com/c2h5oh/datasize"
	"github.com/emer/htmrl/dist"
	"github.com/emer/htmrl/grid"
	"github.com/emer/htmrl/hier"
	"github.com/goki/ki/ints"
	"github.com/goki/mat32"
)

// Conn is a potential connection from one input cell.
type Conn struct {
	Idx  int     `desc:"input cell index, x + y * input width"`
	Perm float32 `desc:"permanence, in [0, 1]"`
}

// Column is one competing unit of a Region.
type Column struct {
	InX, InY    int     `desc:"center of the receptive field in the input grid"`
	Conns       []Conn  `desc:"potential connections"`
	Boost       float32 `desc:"multiplier on the raw overlap"`
	Count       int     `desc:"connected active inputs at the last Activate"`
	Overlap     float32 `desc:"boosted overlap at the last Activate, 0 if below MinOverlap"`
	ActiveDuty  float32 `desc:"running average of winning"`
	OverlapDuty float32 `desc:"running average of reaching MinOverlap"`
	MinDuty     float32 `desc:"minimum duty cycle: MinDutyCycleRatio times the largest ActiveDuty in the neighborhood"`
}

// Region is a spatial pooling stage implementing hier.Stage.
type Region struct {
	Nm     string     `desc:"region name"`
	InW    int        `desc:"input grid width"`
	InH    int        `desc:"input grid height"`
	Width  int        `desc:"columns along X"`
	Height int        `desc:"columns along Y"`
	InhibR int        `desc:"inhibition radius in columns"`
	Cols   []Column   `desc:"columns, index x + y * Width"`
	Out    grid.Bools `desc:"winning columns"`
	In     grid.Bools `view:"-" desc:"copy of the input seen by the last Activate, used by Learn"`
	NSteps int        `inactive:"+" desc:"number of BeginStep calls"`

	act hier.ActivateParams // parameters of the last Activate, used by Learn
}

// NewRegion returns a region of desc's shape over an inW x inH input,
// drawing initial permanences from rng.
func NewRegion(inW, inH int, desc *Desc, rng *rand.Rand) (*Region, error) {
	rg := &Region{}
	if err := rg.Build(inW, inH, desc, rng); err != nil {
		return nil, err
	}
	return rg, nil
}

// Build allocates the columns and their receptive fields.
func (rg *Region) Build(inW, inH int, desc *Desc, rng *rand.Rand) error {
	if inW <= 0 || inH <= 0 {
		return fmt.Errorf("spatial.Build: region %s: input shape %d x %d must be positive", desc.Name, inW, inH)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return fmt.Errorf("spatial.Build: region %s: shape %d x %d must be positive", desc.Name, desc.Width, desc.Height)
	}
	if desc.ConnectionRadius < 0 || desc.InhibitionRadius < 0 {
		return fmt.Errorf("spatial.Build: region %s: radii must not be negative", desc.Name)
	}
	rg.Nm = desc.Name
	rg.InW, rg.InH = inW, inH
	rg.Width, rg.Height = desc.Width, desc.Height
	rg.InhibR = desc.InhibitionRadius
	rg.Out.SetShape(rg.Width, rg.Height)
	rg.In.SetShape(inW, inH)
	rg.act = desc.Act
	rg.Cols = make([]Column, rg.Width*rg.Height)
	r := desc.ConnectionRadius
	for y := 0; y < rg.Height; y++ {
		for x := 0; x < rg.Width; x++ {
			cl := &rg.Cols[x+y*rg.Width]
			cl.InX = ints.MinInt(int((float32(x)+0.5)*float32(inW)/float32(rg.Width)), inW-1)
			cl.InY = ints.MinInt(int((float32(y)+0.5)*float32(inH)/float32(rg.Height)), inH-1)
			cl.Boost = 1
			cl.Conns = cl.Conns[:0]
			for iy := ints.MaxInt(cl.InY-r, 0); iy <= ints.MinInt(cl.InY+r, inH-1); iy++ {
				for ix := ints.MaxInt(cl.InX-r, 0); ix <= ints.MinInt(cl.InX+r, inW-1); ix++ {
					dx := float32(ix - cl.InX)
					dy := float32(iy - cl.InY)
					d := mat32.Sqrt(dx*dx + dy*dy)
					bias := desc.DistBias * mat32.Max(desc.BiasFloor, 1-desc.DistFalloff*d)
					pm := clip01(dist.Gen32(&desc.Perm, rng) + bias)
					cl.Conns = append(cl.Conns, Conn{Idx: ix + iy*inW, Perm: pm})
				}
			}
		}
	}
	return nil
}

func clip01(v float32) float32 {
	return mat32.Min(1, mat32.Max(0, v))
}

func (rg *Region) Name() string                    { return rg.Nm }
func (rg *Region) InputShape() (width, height int) { return rg.InW, rg.InH }
func (rg *Region) Shape() (width, height int)      { return rg.Width, rg.Height }
func (rg *Region) Output() *grid.Bools             { return &rg.Out }
func (rg *Region) Col(x, y int) *Column            { return &rg.Cols[x+y*rg.Width] }

// BeginStep clears the output.
func (rg *Region) BeginStep() {
	rg.NSteps++
	rg.Out.Clear()
}

// Activate computes overlaps, selects the local winners, and updates duty
// cycles and boosts for the next step.
func (rg *Region) Activate(in *grid.Bools, ap *hier.ActivateParams, boost hier.BoostFunc) {
	rg.act = *ap
	rg.In.CopyFrom(in)
	for ci := range rg.Cols {
		cl := &rg.Cols[ci]
		cl.Count = rg.connectedActive(cl, ap.MinPermanence)
		if cl.Count < ap.MinOverlap || cl.Count == 0 {
			cl.Overlap = 0
		} else {
			cl.Overlap = float32(cl.Count) * cl.Boost
		}
	}
	for y := 0; y < rg.Height; y++ {
		for x := 0; x < rg.Width; x++ {
			ci := rg.Out.Index(x, y)
			if rg.Cols[ci].Overlap <= 0 {
				continue
			}
			if rg.nBeaten(x, y) < ap.DesiredLocalActivity {
				rg.Out.Values[ci] = true
			}
		}
	}
	rg.updateDuty(ap, boost)
}

// connectedActive counts connected potential connections onto active inputs.
func (rg *Region) connectedActive(cl *Column, minPerm float32) int {
	n := 0
	for _, cn := range cl.Conns {
		if cn.Perm >= minPerm && rg.In.Values[cn.Idx] {
			n++
		}
	}
	return n
}

// nBeaten returns the number of neighbors within the inhibition radius
// that beat the column at x, y.
func (rg *Region) nBeaten(x, y int) int {
	ci := x + y*rg.Width
	ov := rg.Cols[ci].Overlap
	n := 0
	for ny := ints.MaxInt(y-rg.InhibR, 0); ny <= ints.MinInt(y+rg.InhibR, rg.Height-1); ny++ {
		for nx := ints.MaxInt(x-rg.InhibR, 0); nx <= ints.MinInt(x+rg.InhibR, rg.Width-1); nx++ {
			ni := nx + ny*rg.Width
			if ni == ci {
				continue
			}
			nov := rg.Cols[ni].Overlap
			if nov > ov || (nov == ov && ni < ci) {
				n++
			}
		}
	}
	return n
}

func (rg *Region) updateDuty(ap *hier.ActivateParams, boost hier.BoostFunc) {
	for ci := range rg.Cols {
		cl := &rg.Cols[ci]
		act := float32(0)
		if rg.Out.Values[ci] {
			act = 1
		}
		cl.ActiveDuty += ap.ActiveDutyCycleDecay * (act - cl.ActiveDuty)
		ovr := float32(0)
		if cl.Count >= ap.MinOverlap && cl.Count > 0 {
			ovr = 1
		}
		cl.OverlapDuty += ap.OverlapDutyCycleDecay * (ovr - cl.OverlapDuty)
	}
	if boost == nil {
		boost = hier.DefaultBoost
	}
	for y := 0; y < rg.Height; y++ {
		for x := 0; x < rg.Width; x++ {
			mx := float32(0)
			for ny := ints.MaxInt(y-rg.InhibR, 0); ny <= ints.MinInt(y+rg.InhibR, rg.Height-1); ny++ {
				for nx := ints.MaxInt(x-rg.InhibR, 0); nx <= ints.MinInt(x+rg.InhibR, rg.Width-1); nx++ {
					mx = mat32.Max(mx, rg.Cols[nx+ny*rg.Width].ActiveDuty)
				}
			}
			cl := rg.Col(x, y)
			cl.MinDuty = ap.MinDutyCycleRatio * mx
			cl.Boost = boost(cl.ActiveDuty, cl.MinDuty)
		}
	}
}

// Learn adapts permanences toward the input seen by the last Activate.
// rng is not used: learning is deterministic given the activation.
func (rg *Region) Learn(lp *hier.LearnParams, rng *rand.Rand) {
	ap := &rg.act
	for y := 0; y < rg.Height; y++ {
		for x := 0; x < rg.Width; x++ {
			ci := rg.Out.Index(x, y)
			cl := &rg.Cols[ci]
			switch {
			case rg.Out.Values[ci]:
				rg.adapt(cl, ap.PermanenceIncrease, ap.PermanenceDecrease)
			case lp.LearningRadius > 0 && rg.winnerNear(x, y, lp.LearningRadius):
				if n := rg.connectedActive(cl, lp.MinPermanence); n > 0 && n >= lp.MinLearningThreshold {
					rg.adapt(cl, lp.NeighborScale*ap.PermanenceIncrease, lp.NeighborScale*ap.PermanenceDecrease)
				}
			}
			if cl.OverlapDuty < cl.MinDuty {
				for i := range cl.Conns {
					cl.Conns[i].Perm = clip01(cl.Conns[i].Perm + ap.SubOverlapPermanenceIncrease)
				}
			}
		}
	}
}

// adapt raises permanences from active inputs and lowers the rest.
func (rg *Region) adapt(cl *Column, inc, dec float32) {
	for i := range cl.Conns {
		cn := &cl.Conns[i]
		if rg.In.Values[cn.Idx] {
			cn.Perm = clip01(cn.Perm + inc)
		} else {
			cn.Perm = clip01(cn.Perm - dec)
		}
	}
}

func (rg *Region) winnerNear(x, y, r int) bool {
	for ny := ints.MaxInt(y-r, 0); ny <= ints.MinInt(y+r, rg.Height-1); ny++ {
		for nx := ints.MaxInt(x-r, 0); nx <= ints.MinInt(x+r, rg.Width-1); nx++ {
			if rg.Out.At(nx, ny) {
				return true
			}
		}
	}
	return false
}

// NConns returns the total number of potential connections.
func (rg *Region) NConns() int {
	n := 0
	for ci := range rg.Cols {
		n += len(rg.Cols[ci].Conns)
	}
	return n
}

// SizeReport returns a string reporting the size of the region.
func (rg *Region) SizeReport() string {
	nc := rg.NConns()
	return fmt.Sprintf("%14s:\t Cols: %d\t Conns: %d\t Mem: %s\n", rg.Nm, len(rg.Cols), nc, (datasize.ByteSize)(nc*8).HumanReadable())
}
