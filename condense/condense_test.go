// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condense

import (
	"testing"

	"github.com/emer/htmrl/grid"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestSize(t *testing.T) {
	cp := &Params{Width: 3, Height: 2}
	w, h := cp.Size(7, 4)
	if w != 3 || h != 2 {
		t.Errorf("Size(7,4): %d x %d, want 3 x 2", w, h)
	}
	if cp.Len(6, 4) != 4 {
		t.Errorf("Len(6,4): %d, want 4", cp.Len(6, 4))
	}
}

func TestCondenseFull(t *testing.T) {
	cp := &Params{Width: 2, Height: 2}
	in := grid.NewBools(6, 4)
	for i := range in.Values {
		in.Values[i] = true
	}
	out := make([]float32, cp.Len(in.Width, in.Height))
	cp.Condense(in, out)
	for i, v := range out {
		if v != 1 {
			t.Errorf("full grid block %d: %v, want 1", i, v)
		}
	}
	in.Clear()
	cp.Condense(in, out)
	for i, v := range out {
		if v != 0 {
			t.Errorf("empty grid block %d: %v, want 0", i, v)
		}
	}
}

func TestCondenseBoundary(t *testing.T) {
	cp := &Params{Width: 4, Height: 4}
	in := grid.NewBools(6, 6) // 2 x 2 blocks, right and bottom blocks half out of range
	for i := range in.Values {
		in.Values[i] = true
	}
	out := make([]float32, cp.Len(in.Width, in.Height))
	cp.Condense(in, out)
	cor := []float32{1, 8.0 / 16, 8.0 / 16, 4.0 / 16}
	for i := range cor {
		if dif := out[i] - cor[i]; dif > difTol || dif < -difTol {
			t.Errorf("block %d: got %v, want %v (full block area denominator)", i, out[i], cor[i])
		}
	}
}

func TestCondensePartial(t *testing.T) {
	cp := &Params{Width: 2, Height: 2}
	in := grid.NewBools(4, 2)
	in.Set(0, 0, true)
	in.Set(3, 1, true)
	in.Set(2, 1, true)
	out := make([]float32, 2)
	cp.Condense(in, out)
	if out[0] != 0.25 || out[1] != 0.5 {
		t.Errorf("got %v, want [0.25 0.5]", out)
	}
}
