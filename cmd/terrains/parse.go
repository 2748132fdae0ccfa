package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/terrains/brush"
	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tileset"
)

// parseCoords parses "x,y".
func parseCoords(s string) (grid.Coords, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return grid.Coords{}, fmt.Errorf("invalid cell %q (use format like '3,-2')", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.Coords{}, fmt.Errorf("invalid cell x: %w", err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.Coords{}, fmt.Errorf("invalid cell y: %w", err)
	}
	return grid.C(x, y), nil
}

// parseSpan parses "x0,y0:x1,y1".
func parseSpan(s string) (grid.Coords, grid.Coords, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return grid.Coords{}, grid.Coords{}, fmt.Errorf("invalid span %q (use format like '0,0:4,3')", s)
	}
	a, err := parseCoords(parts[0])
	if err != nil {
		return grid.Coords{}, grid.Coords{}, err
	}
	b, err := parseCoords(parts[1])
	if err != nil {
		return grid.Coords{}, grid.Coords{}, err
	}
	return a, b, nil
}

// selection collects the cells named by --cell, --rect and --line flags.
type selection struct {
	cells []string
	rects []string
	lines []string
}

func (sel selection) resolve(shape grid.Shape) ([]grid.Coords, error) {
	set := grid.NewCellSet()
	for _, s := range sel.cells {
		c, err := parseCoords(s)
		if err != nil {
			return nil, err
		}
		set.Add(c)
	}
	for _, s := range sel.rects {
		a, b, err := parseSpan(s)
		if err != nil {
			return nil, err
		}
		for _, c := range brush.Rect(a, b) {
			set.Add(c)
		}
	}
	for _, s := range sel.lines {
		a, b, err := parseSpan(s)
		if err != nil {
			return nil, err
		}
		for _, c := range shape.Line(a, b) {
			set.Add(c)
		}
	}
	if set.Len() == 0 {
		return nil, fmt.Errorf("no cells selected (use --cell, --rect or --line)")
	}
	return set.Sorted(), nil
}

// patternFor picks the pattern a single-terrain brush paints: the uniform
// pattern when a tile has it, otherwise the catalog's best match.
func patternFor(c *terrain.Catalog, set, t int) terrain.Pattern {
	n := len(c.Bits(set))
	if t == tileset.NoTerrain {
		return terrain.EmptyPattern(n)
	}
	uniform := terrain.UniformPattern(n, t)
	if c.Has(set, uniform) {
		return uniform
	}
	if best := c.PatternsForTerrain(set, t); len(best) > 0 {
		return best[0]
	}
	return uniform
}

// brushPatterns converts per-cell terrains into the patterns to paint.
func brushPatterns(c *terrain.Catalog, set int, cells map[grid.Coords]int) map[grid.Coords]terrain.Pattern {
	out := make(map[grid.Coords]terrain.Pattern, len(cells))
	for t, group := range brush.Split(cells) {
		p := patternFor(c, set, t)
		for _, cell := range group {
			out[cell] = p
		}
	}
	return out
}
