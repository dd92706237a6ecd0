// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package condense reduces a binary grid to a small dense state vector by
block averaging.

The grid is tiled by Width x Height blocks, starting at the origin; the
last row and column of blocks may hang off the edge.  Each block yields the
count of on cells divided by the full block area, so partial edge blocks
can never reach 1.
*/
package condense

import "github.com/emer/htmrl/grid"

// Params are the block shape used for condensing.
type Params struct {
	Width  int `min:"1" def:"2" desc:"block width in cells"`
	Height int `min:"1" def:"2" desc:"block height in cells"`
}

func (cp *Params) Defaults() {
	cp.Width = 2
	cp.Height = 2
}

// Size returns the condensed shape for a dotsW x dotsH grid (ceiling division).
func (cp *Params) Size(dotsW, dotsH int) (width, height int) {
	return (dotsW + cp.Width - 1) / cp.Width, (dotsH + cp.Height - 1) / cp.Height
}

// Len returns the state vector length for a dotsW x dotsH grid.
func (cp *Params) Len(dotsW, dotsH int) int {
	w, h := cp.Size(dotsW, dotsH)
	return w * h
}

// Condense writes the block averages of in to out, which must have
// length Len(in.Width, in.Height).  Index is bx + by*width.
func (cp *Params) Condense(in *grid.Bools, out []float32) {
	cw, ch := cp.Size(in.Width, in.Height)
	norm := 1 / float32(cp.Width*cp.Height)
	for by := 0; by < ch; by++ {
		for bx := 0; bx < cw; bx++ {
			sum := 0
			for dy := 0; dy < cp.Height; dy++ {
				y := by*cp.Height + dy
				if y >= in.Height {
					break
				}
				for dx := 0; dx < cp.Width; dx++ {
					x := bx*cp.Width + dx
					if x >= in.Width {
						break
					}
					if in.At(x, y) {
						sum++
					}
				}
			}
			out[bx+by*cw] = float32(sum) * norm
		}
	}
}
