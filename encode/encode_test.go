// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package encode

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/htmrl/grid"
)

func testParams() *Params {
	ep := &Params{}
	ep.Defaults()
	ep.DotsX = 5
	ep.DotsY = 5
	ep.BlobRadius = 1
	return ep
}

func newFrame(w, h int) *etensor.Float32 {
	return etensor.NewFloat32([]int{2, h, w}, nil, []string{"Chan", "Y", "X"})
}

// cellOn returns number of on dots in given cell block
func cellOn(ep *Params, g *grid.Bools, cx, cy int) int {
	n := 0
	for y := cy * ep.DotsY; y < (cy+1)*ep.DotsY; y++ {
		for x := cx * ep.DotsX; x < (cx+1)*ep.DotsX; x++ {
			if g.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestEncodeCenter(t *testing.T) {
	ep := testParams()
	fr := newFrame(3, 3) // all zeros = center of each cell
	g := &grid.Bools{}
	ep.Encode(fr, g)
	if g.Width != 15 || g.Height != 15 {
		t.Fatalf("dot grid shape: %d x %d, want 15 x 15", g.Width, g.Height)
	}
	if g.NOn() != 9*9 {
		t.Errorf("total on: %d, want %d", g.NOn(), 9*9)
	}
	for cy := 0; cy < 3; cy++ {
		for cx := 0; cx < 3; cx++ {
			bx, by := cx*5, cy*5
			for y := 0; y < 5; y++ {
				for x := 0; x < 5; x++ {
					want := x >= 1 && x <= 3 && y >= 1 && y <= 3
					if g.At(bx+x, by+y) != want {
						t.Errorf("cell %d,%d dot %d,%d: got %v want %v", cx, cy, x, y, !want, want)
					}
				}
			}
		}
	}
}

func TestEncodeCornerClip(t *testing.T) {
	ep := testParams()
	fr := newFrame(2, 2)
	// each outer corner cell pushes its blob into its own outer corner
	corners := []struct {
		cx, cy int
		vx, vy float32
		x0, y0 int // expected top-left of clipped 2x2 blob, within cell
	}{
		{0, 0, -1, -1, 0, 0},
		{1, 0, 1, -1, 3, 0},
		{0, 1, -1, 1, 0, 3},
		{1, 1, 1, 1, 3, 3},
	}
	for _, c := range corners {
		fr.Set([]int{0, c.cy, c.cx}, c.vx)
		fr.Set([]int{1, c.cy, c.cx}, c.vy)
	}
	g := &grid.Bools{}
	ep.Encode(fr, g)
	for _, c := range corners {
		if n := cellOn(ep, g, c.cx, c.cy); n != 4 {
			t.Errorf("corner cell %d,%d: %d dots on, want 4 (clipped 3x3)", c.cx, c.cy, n)
		}
		bx, by := c.cx*ep.DotsX, c.cy*ep.DotsY
		for y := c.y0; y < c.y0+2; y++ {
			for x := c.x0; x < c.x0+2; x++ {
				if !g.At(bx+x, by+y) {
					t.Errorf("corner cell %d,%d: dot %d,%d should be on", c.cx, c.cy, x, y)
				}
			}
		}
	}
	if g.NOn() != 16 {
		t.Errorf("total on: %d, want 16 -- blob leaked into a neighbor cell", g.NOn())
	}
}

func TestSubPos(t *testing.T) {
	ep := testParams()
	vals := []float32{-2, -1, -0.5, 0, 0.5, 0.99, 1, 3}
	cor := []int{0, 0, 1, 2, 3, 4, 4, 4}
	for i, v := range vals {
		if p := ep.SubPos(v, 5); p != cor[i] {
			t.Errorf("SubPos(%v): got %d, want %d", v, p, cor[i])
		}
	}
}

func TestEncodeRadiusZero(t *testing.T) {
	ep := testParams()
	ep.BlobRadius = 0
	fr := newFrame(4, 1)
	g := &grid.Bools{}
	ep.Encode(fr, g)
	if g.NOn() != 4 {
		t.Errorf("radius 0 should give a single dot per cell, got %d total", g.NOn())
	}
}
