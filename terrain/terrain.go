// Package terrain paints terrains onto a tile map. A brush assigns terrain
// patterns to cells; the painter turns the painted patterns and the terrains
// already on the map into constraints, frees neighboring cells that would
// contradict the brush, and fills the freed region with a greedy wave
// function collapse before choosing a concrete tile per cell.
package terrain

import (
	"errors"
	"log/slog"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

var (
	ErrNoCatalog         = errors.New("terrain: no tile catalog")
	ErrInvalidTerrainSet = errors.New("terrain: invalid terrain set")
	ErrInvalidLayer      = errors.New("terrain: invalid layer")
	ErrPatternLength     = errors.New("terrain: pattern length does not match terrain set")
)

// TileSet is the read-only view of a tile set the catalog is built from.
type TileSet interface {
	Shape() grid.Shape
	TerrainSetCount() int
	TerrainCount(terrainSet int) int
	IsValidPeeringBitTerrain(terrainSet int, bit grid.Neighbor) bool
	Tiles() []tileset.Tile
}

// TileMap is the read-only view of the map being painted. Cells without a
// tile report tileset.EmptyRef.
type TileMap interface {
	LayerCount() int
	Cell(layer int, coords grid.Coords) tileset.TileRef
}

type Options struct {
	// Seed feeds the random choices of the solver and the tile picker.
	Seed   int64
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{Seed: 1, Logger: slog.Default()}
}
