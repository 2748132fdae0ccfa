package terrain

import (
	"math/rand"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

func TestSolverUnconstrainedCell(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)
	res := NewSolver(c, 0, rand.New(rand.NewSource(1))).Solve([]grid.Coords{grid.C(0, 0)}, nil)
	if len(res.Patterns) != 1 || len(res.Unresolved) != 0 {
		t.Fatalf("expected one resolved cell, got %+v", res)
	}
	if !c.Has(0, res.Patterns[grid.C(0, 0)]) {
		t.Fatalf("solver picked a pattern outside the catalog")
	}
}

func TestSolverReportsUnsatisfiableCell(t *testing.T) {
	ts := squareTileSet(t)
	c := NewCatalog(ts, quietLogger)
	m := newFakeMap()
	m.cells[grid.C(1, 0)] = waterRef
	p := NewPainter(c, m, 0, testOptions())

	region := grid.NewCellSet(grid.C(0, 0))
	ctx := p.ConstraintsFromContext(region, 0)
	edge := KeyOf(grid.ShapeSquare, grid.C(0, 0), grid.RightSide)
	if got, ok := ctx.Get(edge); !ok || got != water {
		t.Fatalf("expected water on the shared edge, got %d (%v)", got, ok)
	}
	corner := KeyOf(grid.ShapeSquare, grid.C(0, 0), grid.BottomRightCorner)
	if got, _ := ctx.Get(corner); got != tileset.NoTerrain {
		t.Fatalf("expected the empty neighbors to outvote water on the corner, got %d", got)
	}

	// Without the shore tile nothing fits: water on the right, nothing
	// everywhere else.
	noShore := tileset.New(grid.ShapeSquare)
	noShore.AddTerrainSet(tileset.MatchCornersAndSides, tileset.Terrain{Name: "grass"}, tileset.Terrain{Name: "water"})
	for _, tile := range []tileset.Tile{
		uniformTile(grassRef, grid.ShapeSquare, grass, 1),
		uniformTile(waterRef, grid.ShapeSquare, water, 1),
	} {
		if err := noShore.AddTile(tile); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	strict := NewCatalog(noShore, quietLogger)
	res := NewSolver(strict, 0, rand.New(rand.NewSource(1))).Solve(region.Sorted(), copySet(ctx))
	if len(res.Patterns) != 0 || len(res.Unresolved) != 1 || res.Unresolved[0] != grid.C(0, 0) {
		t.Fatalf("expected (0,0) unresolved, got %+v", res)
	}

	// With it the shore is the only fit.
	res = NewSolver(c, 0, rand.New(rand.NewSource(1))).Solve(region.Sorted(), copySet(ctx))
	want := EmptyPattern(squareBitLen).With(0, water)
	if got := res.Patterns[grid.C(0, 0)]; got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSolverConsistencyAndTermination(t *testing.T) {
	cases := []struct {
		name  string
		shape grid.Shape
		ts    *tileset.TileSet
	}{
		{"square", grid.ShapeSquare, squareTileSet(t)},
		{"isometric", grid.ShapeIsometric, shapeTileSet(t, grid.ShapeIsometric)},
		{"half offset horizontal", grid.ShapeHalfOffsetHorizontal, shapeTileSet(t, grid.ShapeHalfOffsetHorizontal)},
		{"half offset vertical", grid.ShapeHalfOffsetVertical, shapeTileSet(t, grid.ShapeHalfOffsetVertical)},
	}
	terrains := []int{tileset.NoTerrain, grass, water}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCatalog(tc.ts, quietLogger)
			bits := c.Bits(0)

			for seed := int64(1); seed <= 25; seed++ {
				rng := rand.New(rand.NewSource(seed))
				var cells []grid.Coords
				initial := make(ConstraintSet)
				for x := 0; x < 5; x++ {
					for y := 0; y < 4; y++ {
						cell := grid.C(x, y)
						cells = append(cells, cell)
						for _, bit := range bits {
							if rng.Intn(6) == 0 {
								initial.Add(NewConstraint(tc.shape, cell, bit, terrains[rng.Intn(len(terrains))]))
							}
						}
					}
				}

				res := NewSolver(c, 0, rng).Solve(cells, copySet(initial))
				if res.Iterations > len(cells) {
					t.Fatalf("seed %d: %d iterations for %d cells", seed, res.Iterations, len(cells))
				}
				if len(res.Order)+len(res.Unresolved) != len(cells) {
					t.Fatalf("seed %d: %d assigned and %d unresolved out of %d", seed, len(res.Order), len(res.Unresolved), len(cells))
				}

				current := copySet(initial)
				for _, cell := range res.Order {
					p := res.Patterns[cell]
					for i, bit := range bits {
						k := KeyOf(tc.shape, cell, bit)
						if want, ok := current.Get(k); ok && want != p.At(i) {
							t.Fatalf("seed %d: %v got %v contradicting %v=%d", seed, cell, p, k, want)
						}
					}
					current.Merge(ConstraintsFromPattern(tc.shape, bits, cell, p), false)
				}
			}
		})
	}
}

func TestSolverDeterministicForSeed(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)
	cells := []grid.Coords{grid.C(0, 0), grid.C(1, 0), grid.C(0, 1), grid.C(1, 1)}
	a := NewSolver(c, 0, rand.New(rand.NewSource(9))).Solve(cells, nil)
	b := NewSolver(c, 0, rand.New(rand.NewSource(9))).Solve(cells, nil)
	if len(a.Order) != len(b.Order) {
		t.Fatalf("runs differ in length")
	}
	for i := range a.Order {
		if a.Order[i] != b.Order[i] || a.Patterns[a.Order[i]] != b.Patterns[b.Order[i]] {
			t.Fatalf("runs differ at step %d", i)
		}
	}
}

func copySet(s ConstraintSet) ConstraintSet {
	out := make(ConstraintSet, len(s))
	out.Merge(s, true)
	return out
}
