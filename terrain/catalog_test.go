package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

func TestCatalogRebuild(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)

	if got := len(c.Bits(0)); got != squareBitLen {
		t.Fatalf("expected %d bits, got %d", squareBitLen, got)
	}
	// grass, water, shore and the empty pattern.
	if got := len(c.Patterns(0)); got != 4 {
		t.Fatalf("expected 4 patterns, got %d: %v", got, c.Patterns(0))
	}

	empty := EmptyPattern(squareBitLen)
	variants := c.Variants(0, empty)
	if len(variants) != 1 || variants[0].Ref != tileset.EmptyRef || variants[0].Probability != 1 {
		t.Fatalf("expected the empty sentinel, got %+v", variants)
	}

	if got := len(c.Variants(0, UniformPattern(squareBitLen, water))); got != 2 {
		t.Fatalf("expected 2 water variants, got %d", got)
	}
	if _, ok := c.Lookup(plainRef); ok {
		t.Fatalf("tile without terrain set must not be cataloged")
	}
	if _, ok := c.Lookup(sceneRef); ok {
		t.Fatalf("scene tile must not be cataloged")
	}
	v, ok := c.Lookup(shoreRef)
	if !ok || v.Pattern != empty.With(0, water) {
		t.Fatalf("unexpected shore lookup %+v, %v", v, ok)
	}
	if c.Patterns(3) != nil || c.Bits(-1) != nil {
		t.Fatalf("expected nothing for unknown terrain sets")
	}
}

func TestCatalogPatternsForTerrain(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)
	got := c.PatternsForTerrain(0, water)
	if len(got) != 2 {
		t.Fatalf("expected 2 water patterns, got %v", got)
	}
	if got[0] != UniformPattern(squareBitLen, water) {
		t.Fatalf("expected full water first, got %v", got)
	}
	if c.PatternsForTerrain(0, 7) != nil {
		t.Fatalf("expected no patterns for unknown terrain")
	}
}

func TestCatalogTerrainModes(t *testing.T) {
	ts := tileset.New(grid.ShapeHalfOffsetHorizontal)
	ts.AddTerrainSet(tileset.MatchSides, tileset.Terrain{Name: "road"})
	corners := tileset.NewTile(tileset.TileAtlas, grassRef, 0)
	corners.Terrains[grid.TopCorner] = 0
	sides := tileset.NewTile(tileset.TileAtlas, waterRef, 0)
	sides.Terrains[grid.LeftSide] = 0
	for _, tile := range []tileset.Tile{corners, sides} {
		if err := ts.AddTile(tile); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	c := NewCatalog(ts, quietLogger)
	if got := len(c.Bits(0)); got != 6 {
		t.Fatalf("expected 6 side bits, got %d", got)
	}
	if _, ok := c.Lookup(grassRef); ok {
		t.Fatalf("tile with terrain only on corners must be ignored by a sides set")
	}
	if _, ok := c.Lookup(waterRef); !ok {
		t.Fatalf("expected side tile in catalog")
	}
}

func TestCatalogRebuildReplacesSnapshot(t *testing.T) {
	ts := squareTileSet(t)
	c := NewCatalog(ts, quietLogger)
	extra := uniformTile(tileset.TileRef{SourceID: 0, Coords: grid.C(5, 5)}, grid.ShapeSquare, grass, 1)
	if err := ts.AddTile(extra); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, ok := c.Lookup(extra.Ref); ok {
		t.Fatalf("catalog changed before rebuild")
	}
	c.Rebuild(ts)
	if _, ok := c.Lookup(extra.Ref); !ok {
		t.Fatalf("catalog missing tile after rebuild")
	}
}

func TestCatalogPickFrequency(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)
	rng := rand.New(rand.NewSource(7))
	full := UniformPattern(squareBitLen, water)

	const draws = 20000
	alt := 0
	for i := 0; i < draws; i++ {
		v, ok := c.Pick(rng, 0, full)
		if !ok {
			t.Fatalf("pick failed")
		}
		if v.Ref == waterAltRef {
			alt++
		}
	}
	got := float64(alt) / draws
	if math.Abs(got-0.75) > 0.02 {
		t.Fatalf("expected alternative about 75%% of the time, got %.3f", got)
	}

	if _, ok := c.Pick(rng, 0, NewPattern(1, 1, 1, 1, 1, 1, 1, 0)); ok {
		t.Fatalf("expected no tile for an unknown pattern")
	}
}

func TestCatalogClosest(t *testing.T) {
	c := NewCatalog(squareTileSet(t), quietLogger)
	want := UniformPattern(squareBitLen, water)
	got, ok := c.Closest(0, want.With(3, grass))
	if !ok || got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if _, ok := c.Closest(0, NewPattern(0, 0)); ok {
		t.Fatalf("expected no match for a pattern of the wrong length")
	}
}
