package main

import (
	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tilemap"
	"github.com/milk9111/terrains/tileset"
)

type Tool int

const (
	ToolBrush Tool = iota
	ToolErase
	ToolLine
	ToolPicker

	toolCount
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "Brush"
	case ToolErase:
		return "Erase"
	case ToolLine:
		return "Line"
	case ToolPicker:
		return "Picker"
	default:
		return "Unknown"
	}
}

type editorSnapshot struct {
	level        *tilemap.Map
	currentLayer int
}

// history is the editor's undo stack of whole-map snapshots.
type history struct {
	undoStack []editorSnapshot
	maxUndo   int
}

func (h *history) push(level *tilemap.Map, currentLayer int) {
	if h.maxUndo <= 0 {
		h.maxUndo = 100
	}
	if len(h.undoStack) >= h.maxUndo {
		h.undoStack = h.undoStack[1:]
	}
	h.undoStack = append(h.undoStack, editorSnapshot{level: level.Clone(), currentLayer: currentLayer})
}

func (h *history) pop() (editorSnapshot, bool) {
	if len(h.undoStack) == 0 {
		return editorSnapshot{}, false
	}
	idx := len(h.undoStack) - 1
	snapshot := h.undoStack[idx]
	h.undoStack = h.undoStack[:idx]
	return snapshot, true
}

// brushState is the terrain brush: a terrain set, a terrain and the pattern
// picked for it from the palette.
type brushState struct {
	terrainSet   int
	terrain      int
	palette      []terrain.Pattern
	paletteIndex int
}

// refresh rebuilds the palette after the terrain or catalog changed,
// keeping the current pattern selected when it still exists.
func (b *brushState) refresh(c *terrain.Catalog) {
	if b.terrainSet < 0 || b.terrainSet >= c.TerrainSetCount() {
		b.terrainSet = 0
	}
	if b.terrain >= c.TerrainCount(b.terrainSet) {
		b.terrain = 0
	}
	var current terrain.Pattern
	hadCurrent := b.paletteIndex < len(b.palette)
	if hadCurrent {
		current = b.palette[b.paletteIndex]
	}
	b.palette = nil
	if c.TerrainSetCount() > 0 && b.terrain != tileset.NoTerrain {
		b.palette = c.PatternsForTerrain(b.terrainSet, b.terrain)
	}
	b.paletteIndex = 0
	if hadCurrent {
		for i, p := range b.palette {
			if p == current {
				b.paletteIndex = i
				break
			}
		}
	}
}

func (b *brushState) cycle(step int) {
	if len(b.palette) == 0 {
		return
	}
	b.paletteIndex = ((b.paletteIndex+step)%len(b.palette) + len(b.palette)) % len(b.palette)
}

func (b *brushState) pattern() (terrain.Pattern, bool) {
	if b.paletteIndex >= len(b.palette) {
		return terrain.Pattern{}, false
	}
	return b.palette[b.paletteIndex], true
}

// selectPattern points the brush at a picked pattern: its dominant terrain
// and the palette entry for it.
func (b *brushState) selectPattern(c *terrain.Catalog, set int, p terrain.Pattern) {
	b.terrainSet = set
	b.terrain = dominantTerrain(p)
	b.palette = nil
	b.paletteIndex = 0
	b.refresh(c)
	for i, q := range b.palette {
		if q == p {
			b.paletteIndex = i
			return
		}
	}
}

func dominantTerrain(p terrain.Pattern) int {
	best, bestCount := tileset.NoTerrain, 0
	for _, t := range p.Terrains() {
		if t == tileset.NoTerrain {
			continue
		}
		if n := p.Count(t); n > bestCount || (n == bestCount && t < best) {
			best, bestCount = t, n
		}
	}
	return best
}

// cellLayout maps cells to world pixels. Staggered shapes shift every odd
// row (or column, for vertical offset) by half a cell.
type cellLayout struct {
	shape    grid.Shape
	cellSize int
}

func (l cellLayout) origin(c grid.Coords) (float64, float64) {
	x := float64(c.X * l.cellSize)
	y := float64(c.Y * l.cellSize)
	half := float64(l.cellSize) / 2
	switch l.shape {
	case grid.ShapeIsometric, grid.ShapeHalfOffsetHorizontal:
		if c.Y&1 != 0 {
			x += half
		}
	case grid.ShapeHalfOffsetVertical:
		if c.X&1 != 0 {
			y += half
		}
	}
	return x, y
}

func (l cellLayout) cellAt(wx, wy float64) grid.Coords {
	size := float64(l.cellSize)
	switch l.shape {
	case grid.ShapeIsometric, grid.ShapeHalfOffsetHorizontal:
		y := floorDiv(wy, size)
		if y&1 != 0 {
			wx -= size / 2
		}
		return grid.C(floorDiv(wx, size), y)
	case grid.ShapeHalfOffsetVertical:
		x := floorDiv(wx, size)
		if x&1 != 0 {
			wy -= size / 2
		}
		return grid.C(x, floorDiv(wy, size))
	default:
		return grid.C(floorDiv(wx, size), floorDiv(wy, size))
	}
}

func floorDiv(v, size float64) int {
	q := int(v / size)
	if v < 0 && float64(q)*size != v {
		q--
	}
	return q
}
