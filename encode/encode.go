// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package encode converts a 2-channel continuous sensory frame into a sparse
binary "dot" grid using a population code.

Each input cell owns a DotsX x DotsY block of dots.  Channel 0 selects a
horizontal sub-position and channel 1 a vertical sub-position within that
block, by mapping [-1,1] linearly onto [0, Dots).  A square blob of radius
BlobRadius is drawn around that dot, clipped to the block so that no cell
ever writes into its neighbors.
*/
package encode

import (
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/htmrl/grid"
	"github.com/goki/ki/ints"
)

// Params are the population-code encoding parameters.
type Params struct {
	DotsX      int        `min:"1" desc:"number of dots along X for each input cell"`
	DotsY      int        `min:"1" desc:"number of dots along Y for each input cell"`
	BlobRadius int        `def:"1" min:"0" desc:"radius of the square blob drawn around the coded dot -- blob side is 2*BlobRadius+1 before clipping to the cell"`
	Range      minmax.F32 `view:"inline" desc:"range of input values -- values outside are clipped before coding"`
}

func (ep *Params) Defaults() {
	ep.DotsX = 4
	ep.DotsY = 4
	ep.BlobRadius = 1
	ep.Update()
}

func (ep *Params) Update() {
	ep.Range.Set(-1, 1)
}

// Size returns the dot grid shape for an input of given width and height.
func (ep *Params) Size(width, height int) (dotsW, dotsH int) {
	return width * ep.DotsX, height * ep.DotsY
}

// SubPos returns the dot index within a cell of size dots for input value v.
func (ep *Params) SubPos(v float32, dots int) int {
	v = ep.Range.ClipVal(v)
	nrm := (v - ep.Range.Min) / ep.Range.Range()
	pos := int(nrm * float32(dots))
	return ints.MinInt(ints.MaxInt(pos, 0), dots-1)
}

// Encode writes the dot grid for frame into out, which is reshaped as needed.
// frame must have shape [2, height, width] (Chan, Y, X).
func (ep *Params) Encode(frame *etensor.Float32, out *grid.Bools) {
	height := frame.Dim(1)
	width := frame.Dim(2)
	dw, dh := ep.Size(width, height)
	if out.Width != dw || out.Height != dh {
		out.SetShape(dw, dh)
	} else {
		out.Clear()
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bx := x * ep.DotsX
			by := y * ep.DotsY
			ex := bx + ep.DotsX
			ey := by + ep.DotsY
			dx := bx + ep.SubPos(frame.Value([]int{0, y, x}), ep.DotsX)
			dy := by + ep.SubPos(frame.Value([]int{1, y, x}), ep.DotsY)
			ep.Blob(out, dx, dy, bx, by, ex, ey)
		}
	}
}

// Blob turns on the square of radius BlobRadius around (cx, cy),
// clipped to the [bx,ex) x [by,ey) cell block.
func (ep *Params) Blob(out *grid.Bools, cx, cy, bx, by, ex, ey int) {
	r := ep.BlobRadius
	x0 := ints.MaxInt(cx-r, bx)
	x1 := ints.MinInt(cx+r+1, ex)
	y0 := ints.MaxInt(cy-r, by)
	y1 := ints.MinInt(cy+r+1, ey)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			out.Set(px, py, true)
		}
	}
}
