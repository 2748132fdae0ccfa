// Package brush produces the cells a terrain paint applies to: rectangles,
// scripted shapes and noise fills. Brushes yield a terrain id per cell;
// Uniform turns those into the patterns the painter takes.
package brush

import (
	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
)

// Rect returns every cell of the rectangle spanned by two corners.
func Rect(a, b grid.Coords) []grid.Coords {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	cells := make([]grid.Coords, 0, (x1-x0+1)*(y1-y0+1))
	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			cells = append(cells, grid.C(x, y))
		}
	}
	return cells
}

// Fill assigns one terrain to every cell.
func Fill(cells []grid.Coords, t int) map[grid.Coords]int {
	out := make(map[grid.Coords]int, len(cells))
	for _, c := range cells {
		out[c] = t
	}
	return out
}

// Uniform gives every cell the pattern with all bits set to its terrain.
func Uniform(bits int, cells map[grid.Coords]int) map[grid.Coords]terrain.Pattern {
	out := make(map[grid.Coords]terrain.Pattern, len(cells))
	for c, t := range cells {
		out[c] = terrain.UniformPattern(bits, t)
	}
	return out
}

// Split groups cells by terrain so each terrain can be painted with the
// best pattern the catalog offers for it.
func Split(cells map[grid.Coords]int) map[int][]grid.Coords {
	out := make(map[int][]grid.Coords)
	for c, t := range cells {
		out[t] = append(out[t], c)
	}
	for _, list := range out {
		grid.SortCoords(list)
	}
	return out
}
