// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package spatial

import (
	"math/rand"
	"testing"

	"github.com/emer/emergent/erand"
	"github.com/emer/htmrl/grid"
	"github.com/emer/htmrl/hier"
	"github.com/goki/mat32"
)

// difTol is the numeric tolerance for permanence comparisons
const difTol = float32(1.0e-6)

var _ hier.Stage = (*Region)(nil)

// flatDesc has all permanences at 0.5 and every column competing with every other.
func flatDesc() *Desc {
	ds := &Desc{}
	ds.Defaults()
	ds.Name = "test"
	ds.Width = 4
	ds.Height = 4
	ds.ConnectionRadius = 1
	ds.InhibitionRadius = 3
	ds.Perm = erand.RndParams{Dist: erand.Uniform, Mean: 0.5, Var: 0}
	ds.DistBias = 0
	ds.Lrn.LearningRadius = 0
	return ds
}

func newFlat(t *testing.T, ds *Desc) *Region {
	rg, err := NewRegion(8, 8, ds, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatal(err)
	}
	return rg
}

func leftHalf() *grid.Bools {
	in := grid.NewBools(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			in.Set(x, y, true)
		}
	}
	return in
}

func checkPerms(t *testing.T, rg *Region, ci int, active, inactive float32) {
	t.Helper()
	for _, cn := range rg.Cols[ci].Conns {
		want := inactive
		if rg.In.Values[cn.Idx] {
			want = active
		}
		if mat32.Abs(cn.Perm-want) > difTol {
			t.Errorf("col %d input %d: perm %g want %g", ci, cn.Idx, cn.Perm, want)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	ds := flatDesc()
	rng := rand.New(rand.NewSource(1))
	if _, err := NewRegion(0, 8, ds, rng); err == nil {
		t.Error("expected error for empty input")
	}
	ds.Width = 0
	if _, err := NewRegion(8, 8, ds, rng); err == nil {
		t.Error("expected error for empty region")
	}
	ds = flatDesc()
	ds.ConnectionRadius = -1
	if _, err := NewRegion(8, 8, ds, rng); err == nil {
		t.Error("expected error for negative radius")
	}
}

func TestReceptiveField(t *testing.T) {
	rg := newFlat(t, flatDesc())
	cl := rg.Col(0, 0)
	if cl.InX != 1 || cl.InY != 1 || len(cl.Conns) != 9 {
		t.Errorf("col 0,0: center %d,%d conns %d", cl.InX, cl.InY, len(cl.Conns))
	}
	cl = rg.Col(3, 3)
	if cl.InX != 7 || cl.InY != 7 || len(cl.Conns) != 4 {
		t.Errorf("col 3,3: center %d,%d conns %d", cl.InX, cl.InY, len(cl.Conns))
	}
	for ci := range rg.Cols {
		for _, cn := range rg.Cols[ci].Conns {
			if cn.Perm != 0.5 {
				t.Fatalf("col %d perm %g want 0.5", ci, cn.Perm)
			}
		}
	}
}

func TestDistBias(t *testing.T) {
	ds := flatDesc()
	ds.DistBias = 0.2
	ds.DistFalloff = 0.5
	rg := newFlat(t, ds)
	cl := rg.Col(1, 1)
	for _, cn := range cl.Conns {
		dx := float32(cn.Idx%8 - cl.InX)
		dy := float32(cn.Idx/8 - cl.InY)
		want := 0.5 + 0.2*mat32.Max(0, 1-0.5*mat32.Sqrt(dx*dx+dy*dy))
		if mat32.Abs(cn.Perm-want) > difTol {
			t.Errorf("input %d: perm %g want %g", cn.Idx, cn.Perm, want)
		}
	}
}

func TestSeeded(t *testing.T) {
	ds := flatDesc()
	ds.Perm = erand.RndParams{Dist: erand.Gaussian, Mean: 0.2, Var: 0.1}
	a, _ := NewRegion(8, 8, ds, rand.New(rand.NewSource(3)))
	b, _ := NewRegion(8, 8, ds, rand.New(rand.NewSource(3)))
	for ci := range a.Cols {
		for i, cn := range a.Cols[ci].Conns {
			pb := b.Cols[ci].Conns[i].Perm
			if cn.Perm != pb {
				t.Fatalf("col %d conn %d: %g != %g", ci, i, cn.Perm, pb)
			}
			if cn.Perm < 0 || cn.Perm > 1 {
				t.Fatalf("perm %g out of [0, 1]", cn.Perm)
			}
		}
	}
}

func TestWinners(t *testing.T) {
	ds := flatDesc()
	rg := newFlat(t, ds)
	in := grid.NewBools(8, 8)
	for i := range in.Values {
		in.Values[i] = true
	}
	rg.BeginStep()
	rg.Activate(in, &ds.Act, hier.DefaultBoost)
	// all 3 x 3 fields tie at 9, lowest indexes win
	if rg.Out.NOn() != 2 || !rg.Out.Values[0] || !rg.Out.Values[1] {
		t.Errorf("winners:\n%s", rg.Out.String())
	}
	if rg.Cols[0].Count != 9 || rg.Cols[15].Count != 4 {
		t.Errorf("counts %d %d", rg.Cols[0].Count, rg.Cols[15].Count)
	}

	rg.BeginStep()
	rg.Activate(grid.NewBools(8, 8), &ds.Act, hier.DefaultBoost)
	if rg.Out.NOn() != 0 {
		t.Errorf("empty input should have no winners:\n%s", rg.Out.String())
	}
}

func TestDutyBoost(t *testing.T) {
	ds := flatDesc()
	rg := newFlat(t, ds)
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, hier.DefaultBoost)
	// winners are columns 0 and 4 (both 9 active of 9)
	if !rg.Out.Values[0] || !rg.Out.Values[4] || rg.Out.NOn() != 2 {
		t.Fatalf("winners:\n%s", rg.Out.String())
	}
	mn := float32(0.01 * 0.01)
	win := rg.Cols[0]
	if mat32.Abs(win.ActiveDuty-0.01) > difTol || mat32.Abs(win.MinDuty-mn) > difTol {
		t.Errorf("winner duty %g min %g", win.ActiveDuty, win.MinDuty)
	}
	if want := (1 - mn) + (0.01 - mn); mat32.Abs(win.Boost-want) > difTol {
		t.Errorf("winner boost %g want %g", win.Boost, want)
	}
	if want := 1 - mn; mat32.Abs(rg.Cols[1].Boost-want) > difTol {
		t.Errorf("loser boost %g want %g", rg.Cols[1].Boost, want)
	}
	if rg.Cols[3].OverlapDuty != 0 || rg.Cols[1].OverlapDuty == 0 {
		t.Errorf("overlap duty: %g %g", rg.Cols[3].OverlapDuty, rg.Cols[1].OverlapDuty)
	}

	two := func(active, minimum float32) float32 { return 2 }
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, two)
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, two)
	if rg.Cols[0].Overlap != 18 {
		t.Errorf("boosted overlap %g want 18", rg.Cols[0].Overlap)
	}
}

func TestLearn(t *testing.T) {
	ds := flatDesc()
	rg := newFlat(t, ds)
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, hier.DefaultBoost)
	rg.Learn(&ds.Lrn, nil)
	// winners: all inputs active
	checkPerms(t, rg, 0, 0.55, 0.48)
	checkPerms(t, rg, 4, 0.55, 0.48)
	// loser with some overlap, no learning radius
	checkPerms(t, rg, 1, 0.5, 0.5)
	// no overlap at all: sub-overlap bump
	checkPerms(t, rg, 3, 0.55, 0.55)
}

func TestLearnNeighbors(t *testing.T) {
	ds := flatDesc()
	ds.Lrn.LearningRadius = 1
	ds.Lrn.NeighborScale = 0.5
	rg := newFlat(t, ds)
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, hier.DefaultBoost)
	rg.Learn(&ds.Lrn, nil)
	checkPerms(t, rg, 1, 0.525, 0.49)
	// overlaps the input but two rows from any winner
	checkPerms(t, rg, 13, 0.5, 0.5)
}

func TestLearnNeighborThreshold(t *testing.T) {
	ds := flatDesc()
	ds.Lrn.LearningRadius = 1
	ds.Lrn.NeighborScale = 0.5
	// nothing is connected at 0.6, so no neighbor reaches the threshold
	ds.Lrn.MinPermanence = 0.6
	rg := newFlat(t, ds)
	rg.BeginStep()
	rg.Activate(leftHalf(), &ds.Act, hier.DefaultBoost)
	rg.Learn(&ds.Lrn, nil)
	checkPerms(t, rg, 0, 0.55, 0.48)
	checkPerms(t, rg, 1, 0.5, 0.5)
}

func TestHierarchy(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	d1 := flatDesc()
	d1.Perm = erand.RndParams{Dist: erand.Gaussian, Mean: 0.25, Var: 0.05}
	d1.InhibitionRadius = 1
	d1.Act.DesiredLocalActivity = 1
	d2 := flatDesc()
	d2.Width, d2.Height = 2, 2
	r1, err := NewRegion(8, 8, d1, rng)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := NewRegion(4, 4, d2, rng)
	if err != nil {
		t.Fatal(err)
	}
	var hr hier.Hierarchy
	hr.Layers = append(hr.Layers, d1.Layer(r1), d2.Layer(r2))
	if err := hr.Build(8, 8); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		out := hr.Step(leftHalf(), rng)
		if out != &r2.Out || out.Width != 2 || out.Height != 2 {
			t.Fatalf("output grid %dx%d", out.Width, out.Height)
		}
	}
	if r1.NSteps != 5 || r2.NSteps != 5 {
		t.Errorf("steps %d %d", r1.NSteps, r2.NSteps)
	}
	if r1.Out.NOn() == 0 {
		t.Error("first region never active")
	}

	bad := flatDesc()
	r3, _ := NewRegion(5, 5, bad, rng)
	hr.Layers = append(hr.Layers, bad.Layer(r3))
	if err := hr.Build(8, 8); err == nil {
		t.Error("expected shape mismatch error")
	}
}
