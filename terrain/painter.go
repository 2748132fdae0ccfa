package terrain

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

// Painter resolves terrain brush strokes into tiles for one layer of a map.
// It only reads the map; applying the result is up to the caller.
type Painter struct {
	catalog *Catalog
	tiles   TileMap
	layer   int
	rng     *rand.Rand
	log     *slog.Logger
}

type PaintResult struct {
	// Tiles holds the tile to place in every cell the paint touches.
	Tiles    map[grid.Coords]tileset.TileRef
	Patterns map[grid.Coords]Pattern
	// Replaced is the solved region: painted cells plus pulled neighbors.
	Replaced []grid.Coords
	// Pulled lists the neighbors freed to remove conflicts, in pull order.
	Pulled []grid.Coords
	// Unresolved cells got no tile: the solver stopped before reaching them
	// and, for painted cells, no catalog pattern could stand in.
	Unresolved []grid.Coords
}

func NewPainter(catalog *Catalog, tiles TileMap, layer int, opts Options) *Painter {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Painter{
		catalog: catalog,
		tiles:   tiles,
		layer:   layer,
		rng:     rand.New(rand.NewSource(opts.Seed)),
		log:     logger,
	}
}

func (p *Painter) Catalog() *Catalog {
	return p.catalog
}

func (p *Painter) Layer() int {
	return p.layer
}

func (p *Painter) SetLayer(layer int) {
	p.layer = layer
}

func (p *Painter) validate(terrainSet int) error {
	if p.catalog == nil {
		return ErrNoCatalog
	}
	if terrainSet < 0 || terrainSet >= p.catalog.TerrainSetCount() {
		return fmt.Errorf("%w: %d", ErrInvalidTerrainSet, terrainSet)
	}
	if p.tiles == nil || p.layer < 0 || p.layer >= p.tiles.LayerCount() {
		return fmt.Errorf("%w: %d", ErrInvalidLayer, p.layer)
	}
	return nil
}

// VariantAt returns the terrain variant of the tile placed in a cell.
func (p *Painter) VariantAt(cell grid.Coords) (Variant, bool) {
	if p.catalog == nil || p.tiles == nil {
		return Variant{}, false
	}
	return p.catalog.Lookup(p.tiles.Cell(p.layer, cell))
}

// terrainAt reads the terrain a placed tile has on one of its bits. Tiles
// outside the terrain set count as no terrain.
func (p *Painter) terrainAt(cell grid.Coords, bit grid.Neighbor, terrainSet int) int {
	v, ok := p.VariantAt(cell)
	if !ok || v.TerrainSet != terrainSet {
		return tileset.NoTerrain
	}
	for i, b := range p.catalog.Bits(terrainSet) {
		if b == bit {
			return v.Pattern.At(i)
		}
	}
	return tileset.NoTerrain
}

// ConstraintsFromContext derives, for every point on the border of the
// region, the terrain the cells outside the region agree on. The terrain
// found on most outside bits wins; ties go to the smallest terrain id, so
// no terrain beats any terrain on a tie.
func (p *Painter) ConstraintsFromContext(region grid.CellSet, terrainSet int) ConstraintSet {
	shape := p.catalog.Shape()
	bits := p.catalog.Bits(terrainSet)

	points := make(map[PointKey]struct{})
	for _, cell := range region.Sorted() {
		for _, bit := range bits {
			points[KeyOf(shape, cell, bit)] = struct{}{}
		}
	}

	out := make(ConstraintSet)
	for k := range points {
		counts := make(map[int]int)
		for _, pe := range k.Overlapping(shape) {
			if region.Has(pe.Cell) {
				continue
			}
			counts[p.terrainAt(pe.Cell, pe.Bit, terrainSet)]++
		}
		best, bestCount := tileset.NoTerrain, 0
		for t, n := range counts {
			if n > bestCount || (n == bestCount && t < best) {
				best, bestCount = t, n
			}
		}
		if bestCount > 0 {
			out[k] = best
		}
	}
	return out
}

// Paint applies a brush: every cell of toPaint gets its pattern, and the
// cells around it are re-solved wherever the existing tiles disagree.
func (p *Painter) Paint(toPaint map[grid.Coords]Pattern, terrainSet int) (*PaintResult, error) {
	if err := p.validate(terrainSet); err != nil {
		return nil, err
	}
	bits := p.catalog.Bits(terrainSet)
	for cell, pat := range toPaint {
		if pat.Len() != len(bits) {
			return nil, fmt.Errorf("%w: %v has %d bits, terrain set %d has %d", ErrPatternLength, cell, pat.Len(), terrainSet, len(bits))
		}
	}

	res := &PaintResult{
		Tiles:    make(map[grid.Coords]tileset.TileRef),
		Patterns: make(map[grid.Coords]Pattern),
	}
	if len(toPaint) == 0 {
		return res, nil
	}

	shape := p.catalog.Shape()
	painted := make([]grid.Coords, 0, len(toPaint))
	for cell := range toPaint {
		painted = append(painted, cell)
	}
	grid.SortCoords(painted)

	// Constraints come from the pattern that will actually be placed.
	targets := make(map[grid.Coords]Pattern, len(painted))
	for _, cell := range painted {
		targets[cell] = p.placeable(terrainSet, cell, toPaint[cell])
	}

	added := make(ConstraintSet)
	for _, cell := range painted {
		added.Merge(ConstraintsFromPattern(shape, bits, cell, targets[cell]), false)
	}

	pool := grid.NewCellSet()
	for _, cell := range painted {
		for _, n := range shape.SurroundingCells(cell) {
			if _, ok := toPaint[n]; !ok {
				pool.Add(n)
			}
		}
	}

	region := grid.NewCellSet(painted...)
	var context ConstraintSet
	for {
		context = p.ConstraintsFromContext(region, terrainSet)
		cell, ok := p.nextToFree(added.Conflicts(context), pool)
		if !ok {
			break
		}
		pool.Remove(cell)
		region.Add(cell)
		res.Pulled = append(res.Pulled, cell)
	}

	constraints := make(ConstraintSet, len(context)+len(added))
	constraints.Merge(context, false)
	constraints.Merge(added, true)

	solved := NewSolver(p.catalog, terrainSet, p.rng).Solve(region.Sorted(), constraints)
	for _, cell := range solved.Order {
		pat := solved.Patterns[cell]
		if v, ok := p.catalog.Pick(p.rng, terrainSet, pat); ok {
			res.Tiles[cell] = v.Ref
			res.Patterns[cell] = pat
		}
	}

	for _, cell := range painted {
		pat := targets[cell]
		if res.Patterns[cell] == pat {
			continue
		}
		if v, ok := p.catalog.Pick(p.rng, terrainSet, pat); ok {
			res.Tiles[cell] = v.Ref
			res.Patterns[cell] = pat
		}
	}

	res.Replaced = region.Sorted()
	for _, cell := range solved.Unresolved {
		if _, ok := res.Tiles[cell]; !ok {
			res.Unresolved = append(res.Unresolved, cell)
		}
	}
	p.log.Debug("paint: resolved",
		"painted", len(painted),
		"pulled", len(res.Pulled),
		"solved", len(solved.Order),
		"unresolved", len(res.Unresolved))
	return res, nil
}

// placeable returns the pattern a painted cell ends up with: the brush
// pattern when a tile realizes it, otherwise the closest catalog pattern.
func (p *Painter) placeable(terrainSet int, cell grid.Coords, pat Pattern) Pattern {
	if p.catalog.Has(terrainSet, pat) {
		return pat
	}
	closest, ok := p.catalog.Closest(terrainSet, pat)
	if !ok {
		return pat
	}
	p.log.Debug("paint: no tile for pattern, using closest", "cell", cell.String(), "pattern", pat.String(), "closest", closest.String())
	return closest
}

// nextToFree picks the neighbor to add to the region: for the first
// conflicting point that a pool cell touches, the smallest such cell.
func (p *Painter) nextToFree(conflicts []PointKey, pool grid.CellSet) (grid.Coords, bool) {
	shape := p.catalog.Shape()
	for _, k := range conflicts {
		var sources []grid.Coords
		for _, pe := range k.Overlapping(shape) {
			if pool.Has(pe.Cell) {
				sources = append(sources, pe.Cell)
			}
		}
		if len(sources) == 0 {
			continue
		}
		grid.SortCoords(sources)
		return sources[0], true
	}
	return grid.Coords{}, false
}

// PaintCells paints the same pattern on every cell.
func (p *Painter) PaintCells(cells []grid.Coords, terrainSet int, pat Pattern) (*PaintResult, error) {
	toPaint := make(map[grid.Coords]Pattern, len(cells))
	for _, c := range cells {
		toPaint[c] = pat
	}
	return p.Paint(toPaint, terrainSet)
}

// PaintLine paints the pattern along a stroke between two cells.
func (p *Painter) PaintLine(from, to grid.Coords, terrainSet int, pat Pattern) (*PaintResult, error) {
	if p.catalog == nil {
		return nil, ErrNoCatalog
	}
	return p.PaintCells(p.catalog.Shape().Line(from, to), terrainSet, pat)
}

// Erase paints the empty pattern, removing terrain from the cells and
// adapting their neighbors.
func (p *Painter) Erase(cells []grid.Coords, terrainSet int) (*PaintResult, error) {
	if p.catalog == nil {
		return nil, ErrNoCatalog
	}
	if terrainSet < 0 || terrainSet >= p.catalog.TerrainSetCount() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTerrainSet, terrainSet)
	}
	return p.PaintCells(cells, terrainSet, EmptyPattern(len(p.catalog.Bits(terrainSet))))
}
