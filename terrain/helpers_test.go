package terrain

import (
	"io"
	"log/slog"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

const (
	grass = 0
	water = 1
)

var (
	grassRef     = tileset.TileRef{SourceID: 0, Coords: grid.C(0, 0)}
	waterRef     = tileset.TileRef{SourceID: 0, Coords: grid.C(1, 0)}
	waterAltRef  = tileset.TileRef{SourceID: 0, Coords: grid.C(1, 0), Alternative: 1}
	shoreRef     = tileset.TileRef{SourceID: 0, Coords: grid.C(2, 0)}
	plainRef     = tileset.TileRef{SourceID: 0, Coords: grid.C(3, 0)}
	sceneRef     = tileset.TileRef{SourceID: 1, Coords: grid.C(0, 0)}
	quietLogger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	squareBitLen = 8
)

func uniformTile(ref tileset.TileRef, shape grid.Shape, terrain int, prob float64) tileset.Tile {
	t := tileset.NewTile(tileset.TileAtlas, ref, 0)
	for _, bit := range shape.PeeringBits() {
		t.Terrains[bit] = terrain
	}
	t.Probability = prob
	return t
}

// squareTileSet has full grass, full water (two alternatives, weights 1 and
// 3), a tile with water only on its right side, a tile outside any terrain
// set and a scene tile.
func squareTileSet(t *testing.T) *tileset.TileSet {
	t.Helper()
	ts := tileset.New(grid.ShapeSquare)
	ts.AddTerrainSet(tileset.MatchCornersAndSides, tileset.Terrain{Name: "grass"}, tileset.Terrain{Name: "water"})

	shore := tileset.NewTile(tileset.TileAtlas, shoreRef, 0)
	shore.Terrains[grid.RightSide] = water

	tiles := []tileset.Tile{
		uniformTile(grassRef, grid.ShapeSquare, grass, 1),
		uniformTile(waterRef, grid.ShapeSquare, water, 1),
		uniformTile(waterAltRef, grid.ShapeSquare, water, 3),
		shore,
		tileset.NewTile(tileset.TileAtlas, plainRef, -1),
	}
	scene := tileset.NewTile(tileset.TileScene, sceneRef, 0)
	scene.Terrains[grid.RightSide] = grass
	tiles = append(tiles, scene)

	for _, tile := range tiles {
		if err := ts.AddTile(tile); err != nil {
			t.Fatalf("add tile: %v", err)
		}
	}
	return ts
}

type fakeMap struct {
	layers int
	cells  map[grid.Coords]tileset.TileRef
}

func newFakeMap() *fakeMap {
	return &fakeMap{layers: 1, cells: make(map[grid.Coords]tileset.TileRef)}
}

func (m *fakeMap) LayerCount() int {
	return m.layers
}

func (m *fakeMap) Cell(layer int, c grid.Coords) tileset.TileRef {
	if ref, ok := m.cells[c]; ok {
		return ref
	}
	return tileset.EmptyRef
}

func (m *fakeMap) apply(tiles map[grid.Coords]tileset.TileRef) {
	for c, ref := range tiles {
		if ref.IsEmpty() {
			delete(m.cells, c)
			continue
		}
		m.cells[c] = ref
	}
}

func testOptions() Options {
	return Options{Seed: 42, Logger: quietLogger}
}

// shapeTileSet has full grass, full water and a tile with water only on the
// shape's first peering bit.
func shapeTileSet(t *testing.T, shape grid.Shape) *tileset.TileSet {
	t.Helper()
	ts := tileset.New(shape)
	ts.AddTerrainSet(tileset.MatchCornersAndSides, tileset.Terrain{Name: "grass"}, tileset.Terrain{Name: "water"})

	shore := tileset.NewTile(tileset.TileAtlas, shoreRef, 0)
	shore.Terrains[shape.PeeringBits()[0]] = water
	for _, tile := range []tileset.Tile{
		uniformTile(grassRef, shape, grass, 1),
		uniformTile(waterRef, shape, water, 1),
		shore,
	} {
		if err := ts.AddTile(tile); err != nil {
			t.Fatalf("add tile: %v", err)
		}
	}
	return ts
}
