package main

import (
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/terrain"
	"github.com/milk9111/terrains/tilemap"
	"github.com/milk9111/terrains/tileset"
)

func TestToolString(t *testing.T) {
	cases := []struct {
		tool Tool
		want string
	}{
		{ToolBrush, "Brush"},
		{ToolErase, "Erase"},
		{ToolLine, "Line"},
		{ToolPicker, "Picker"},
		{Tool(42), "Unknown"},
	}
	for _, c := range cases {
		if got := c.tool.String(); got != c.want {
			t.Fatalf("expected %q, got %q", c.want, got)
		}
	}
}

func TestHistoryKeepsLatestSnapshots(t *testing.T) {
	h := history{maxUndo: 3}
	level := tilemap.New(1)
	for i := 0; i < 5; i++ {
		level.SetCell(0, grid.C(i, 0), tileset.TileRef{SourceID: 0, Coords: grid.C(i, 0)})
		h.push(level, i)
	}
	if len(h.undoStack) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(h.undoStack))
	}
	snap, ok := h.pop()
	if !ok || snap.currentLayer != 4 || len(snap.level.UsedCells(0)) != 5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	level.SetCell(0, grid.C(0, 0), tileset.EmptyRef)
	if snap.level.Cell(0, grid.C(0, 0)).IsEmpty() {
		t.Fatalf("snapshot shares storage with the live level")
	}

	h.pop()
	h.pop()
	if _, ok := h.pop(); ok {
		t.Fatalf("expected empty history")
	}
}

func TestCellLayoutRoundTrip(t *testing.T) {
	shapes := []grid.Shape{grid.ShapeSquare, grid.ShapeIsometric, grid.ShapeHalfOffsetHorizontal, grid.ShapeHalfOffsetVertical}
	for _, shape := range shapes {
		t.Run(shape.String(), func(t *testing.T) {
			l := cellLayout{shape: shape, cellSize: 16}
			for x := -3; x <= 3; x++ {
				for y := -3; y <= 3; y++ {
					c := grid.C(x, y)
					ox, oy := l.origin(c)
					if got := l.cellAt(ox+8, oy+8); got != c {
						t.Fatalf("cell %v maps back to %v", c, got)
					}
				}
			}
		})
	}
}

func TestDominantTerrain(t *testing.T) {
	cases := []struct {
		name string
		p    terrain.Pattern
		want int
	}{
		{"empty", terrain.EmptyPattern(4), tileset.NoTerrain},
		{"majority", terrain.NewPattern(1, 1, 0, -1), 1},
		{"tie goes to lower id", terrain.NewPattern(2, 0, 2, 0), 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := dominantTerrain(c.p); got != c.want {
				t.Fatalf("expected %d, got %d", c.want, got)
			}
		})
	}
}

func TestBrushPaletteFollowsCatalog(t *testing.T) {
	ts := tileset.New(grid.ShapeSquare)
	ts.AddTerrainSet(tileset.MatchCornersAndSides, tileset.Terrain{Name: "grass"}, tileset.Terrain{Name: "water"})
	full := tileset.NewTile(tileset.TileAtlas, tileset.TileRef{SourceID: 0, Coords: grid.C(0, 0)}, 0)
	edge := tileset.NewTile(tileset.TileAtlas, tileset.TileRef{SourceID: 0, Coords: grid.C(1, 0)}, 0)
	for _, bit := range ts.Shape().PeeringBits() {
		full.Terrains[bit] = 0
		edge.Terrains[bit] = 0
	}
	edge.Terrains[grid.RightSide] = 1
	for _, tile := range []tileset.Tile{full, edge} {
		if err := ts.AddTile(tile); err != nil {
			t.Fatalf("add tile: %v", err)
		}
	}
	c := terrain.NewCatalog(ts, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var b brushState
	b.refresh(c)
	if len(b.palette) != 2 {
		t.Fatalf("expected 2 grass patterns, got %v", b.palette)
	}
	first, _ := b.pattern()
	if first.Count(0) != 8 {
		t.Fatalf("expected the full grass pattern first, got %v", first)
	}
	b.cycle(-1)
	if b.paletteIndex != 1 {
		t.Fatalf("expected cycling back to wrap, got %d", b.paletteIndex)
	}

	b.selectPattern(c, 0, first)
	if b.terrain != 0 || b.paletteIndex != 0 {
		t.Fatalf("unexpected brush after pick %+v", b)
	}
}

func TestEditorUIHasOneButtonPerTool(t *testing.T) {
	ui, tb := buildEditorUI(nil, nil, nil, ToolLine)
	if ui.Container == nil {
		t.Fatalf("expected a root container")
	}
	if len(tb.buttons) != int(toolCount) {
		t.Fatalf("expected %d tool buttons, got %d", toolCount, len(tb.buttons))
	}
	if tb.group.Active() != tb.buttons[ToolLine] {
		t.Fatalf("expected the line tool active")
	}
	tb.SetTool(ToolPicker)
	if tb.group.Active() != tb.buttons[ToolPicker] {
		t.Fatalf("expected the picker tool active")
	}
	tb.SetTool(toolCount)
	if tb.group.Active() != tb.buttons[ToolPicker] {
		t.Fatalf("an out of range tool changed the selection")
	}
}
