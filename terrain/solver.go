package terrain

import (
	"math/rand"

	"github.com/milk9111/terrains/grid"
)

// Solver assigns patterns to cells so that each assignment agrees with the
// constraints present when it was made. It never backtracks: a cell left
// without candidates stops the run and everything not yet assigned is
// reported unresolved.
type Solver struct {
	catalog    *Catalog
	terrainSet int
	rng        *rand.Rand
}

type SolveResult struct {
	Patterns   map[grid.Coords]Pattern
	Order      []grid.Coords
	Unresolved []grid.Coords
	Iterations int
}

func NewSolver(catalog *Catalog, terrainSet int, rng *rand.Rand) *Solver {
	return &Solver{catalog: catalog, terrainSet: terrainSet, rng: rng}
}

// Candidates returns the catalog patterns a cell can take without
// contradicting the constraints, in catalog order.
func (s *Solver) Candidates(cell grid.Coords, constraints ConstraintSet) []Pattern {
	shape := s.catalog.Shape()
	bits := s.catalog.Bits(s.terrainSet)
	keys := make([]PointKey, len(bits))
	for i, bit := range bits {
		keys[i] = KeyOf(shape, cell, bit)
	}

	var out []Pattern
	for _, p := range s.catalog.Patterns(s.terrainSet) {
		ok := true
		for i, k := range keys {
			if t, found := constraints[k]; found && t != p.At(i) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// Solve collapses cells one at a time. constraints is extended with the
// points of every assigned pattern.
func (s *Solver) Solve(cells []grid.Coords, constraints ConstraintSet) SolveResult {
	res := SolveResult{Patterns: make(map[grid.Coords]Pattern)}
	if constraints == nil {
		constraints = make(ConstraintSet)
	}

	shape := s.catalog.Shape()
	remaining := grid.NewCellSet(cells...)
	candidates := make(map[grid.Coords][]Pattern, len(remaining))
	for c := range remaining {
		candidates[c] = s.Candidates(c, constraints)
	}

	for remaining.Len() > 0 {
		res.Iterations++

		best := -1
		var tied []grid.Coords
		for _, c := range remaining.Sorted() {
			n := len(candidates[c])
			switch {
			case best < 0 || n < best:
				best = n
				tied = append(tied[:0], c)
			case n == best:
				tied = append(tied, c)
			}
		}

		cell := tied[s.rng.Intn(len(tied))]
		options := candidates[cell]
		if len(options) == 0 {
			break
		}
		p := options[s.rng.Intn(len(options))]

		res.Patterns[cell] = p
		res.Order = append(res.Order, cell)
		remaining.Remove(cell)
		delete(candidates, cell)
		constraints.Merge(ConstraintsFromPattern(shape, s.catalog.Bits(s.terrainSet), cell, p), false)

		for _, n := range shape.SurroundingCells(cell) {
			if remaining.Has(n) {
				candidates[n] = s.Candidates(n, constraints)
			}
		}
	}

	res.Unresolved = remaining.Sorted()
	return res
}

// ConstraintsFromPattern returns one constraint per bit of a pattern placed
// on a cell.
func ConstraintsFromPattern(shape grid.Shape, bits []grid.Neighbor, cell grid.Coords, p Pattern) ConstraintSet {
	out := make(ConstraintSet, len(bits))
	for i, bit := range bits {
		if i >= p.Len() {
			break
		}
		out.Add(NewConstraint(shape, cell, bit, p.At(i)))
	}
	return out
}
