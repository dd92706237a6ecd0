// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package grid provides the 2D boolean grid that is passed between the input
encoder, the stages of the feature hierarchy and the condenser.

Values are stored X-fastest: the cell at (x, y) lives at index x + y*Width,
which is the same layout the stages use for their column outputs.
*/
package grid

// Bools is a Width x Height grid of binary activations with owned storage.
type Bools struct {
	Width  int    `desc:"number of cells along X"`
	Height int    `desc:"number of cells along Y"`
	Values []bool `desc:"cell values, index = x + y*Width"`
}

// NewBools returns a cleared grid of given shape.
func NewBools(width, height int) *Bools {
	g := &Bools{}
	g.SetShape(width, height)
	return g
}

// SetShape sets the shape, reusing storage where possible, and clears all cells.
func (g *Bools) SetShape(width, height int) {
	g.Width = width
	g.Height = height
	n := width * height
	if cap(g.Values) >= n {
		g.Values = g.Values[:n]
	} else {
		g.Values = make([]bool, n)
	}
	g.Clear()
}

// Len returns the number of cells.
func (g *Bools) Len() int { return len(g.Values) }

// Clear sets all cells to false.
func (g *Bools) Clear() {
	for i := range g.Values {
		g.Values[i] = false
	}
}

// Index returns the flat index of (x, y).
func (g *Bools) Index(x, y int) int { return x + y*g.Width }

// At returns the value at (x, y).
func (g *Bools) At(x, y int) bool { return g.Values[x+y*g.Width] }

// Set sets the value at (x, y).
func (g *Bools) Set(x, y int, val bool) { g.Values[x+y*g.Width] = val }

// CopyFrom copies shape and values from another grid.
func (g *Bools) CopyFrom(src *Bools) {
	g.Width = src.Width
	g.Height = src.Height
	if cap(g.Values) >= len(src.Values) {
		g.Values = g.Values[:len(src.Values)]
	} else {
		g.Values = make([]bool, len(src.Values))
	}
	copy(g.Values, src.Values)
}

// NOn returns the number of true cells.
func (g *Bools) NOn() int {
	n := 0
	for _, v := range g.Values {
		if v {
			n++
		}
	}
	return n
}

// String renders the grid with '#' for on and '.' for off, one row per line.
func (g *Bools) String() string {
	b := make([]byte, 0, (g.Width+1)*g.Height)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.At(x, y) {
				b = append(b, '#')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
