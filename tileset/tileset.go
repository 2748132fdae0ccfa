// Package tileset models the tiles of a tile set together with the terrain
// peering information the terrain painter reads.
package tileset

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/milk9111/terrains/grid"
)

// NoTerrain marks a peering bit that carries no terrain.
const NoTerrain = -1

type TileKind uint8

const (
	TileMissing TileKind = iota
	TileAtlas
	TileScene
)

func (k TileKind) String() string {
	switch k {
	case TileAtlas:
		return "atlas"
	case TileScene:
		return "scene"
	default:
		return "missing"
	}
}

// TileRef identifies a placed tile: source, atlas coordinates and alternative.
type TileRef struct {
	SourceID    int         `json:"source" db:"source_id"`
	Coords      grid.Coords `json:"coords"`
	Alternative int         `json:"alternative" db:"alternative"`
}

// EmptyRef is the tile that erases a cell.
var EmptyRef = TileRef{SourceID: -1, Coords: grid.C(-1, -1), Alternative: -1}

func (r TileRef) IsEmpty() bool {
	return r.SourceID < 0
}

func (r TileRef) Less(o TileRef) bool {
	if r.SourceID != o.SourceID {
		return r.SourceID < o.SourceID
	}
	if r.Coords != o.Coords {
		return r.Coords.Less(o.Coords)
	}
	return r.Alternative < o.Alternative
}

func (r TileRef) String() string {
	if r.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%d:%d,%d:%d", r.SourceID, r.Coords.X, r.Coords.Y, r.Alternative)
}

// Tile is one alternative of one tile in a source. Terrains is indexed by
// grid.Neighbor; bits the shape does not define stay NoTerrain.
type Tile struct {
	Kind        TileKind
	Ref         TileRef
	TerrainSet  int
	Terrains    [grid.NeighborCount]int
	Probability float64
}

func NewTile(kind TileKind, ref TileRef, terrainSet int) Tile {
	t := Tile{Kind: kind, Ref: ref, TerrainSet: terrainSet, Probability: 1}
	for i := range t.Terrains {
		t.Terrains[i] = NoTerrain
	}
	return t
}

func (t Tile) Terrain(bit grid.Neighbor) int {
	if bit >= grid.NeighborCount {
		return NoTerrain
	}
	return t.Terrains[bit]
}

type TerrainMode uint8

const (
	MatchCornersAndSides TerrainMode = iota
	MatchCorners
	MatchSides
)

var modeNames = []string{"corners_and_sides", "corners", "sides"}

func (m TerrainMode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

type Terrain struct {
	Name  string
	Color color.Color
}

type TerrainSet struct {
	Mode     TerrainMode
	Terrains []Terrain
}

// TileSet is an in-memory tile set.
type TileSet struct {
	shape   grid.Shape
	sets    []TerrainSet
	tiles   []Tile
	byRef   map[TileRef]int
	sources map[int]TileKind
}

func New(shape grid.Shape) *TileSet {
	return &TileSet{
		shape:   shape,
		byRef:   make(map[TileRef]int),
		sources: make(map[int]TileKind),
	}
}

// AddTerrainSet appends a terrain set and returns its index.
func (ts *TileSet) AddTerrainSet(mode TerrainMode, terrains ...Terrain) int {
	ts.sets = append(ts.sets, TerrainSet{Mode: mode, Terrains: terrains})
	return len(ts.sets) - 1
}

// AddTile adds or replaces a tile. A source keeps the kind of its first tile.
func (ts *TileSet) AddTile(t Tile) error {
	if kind, ok := ts.sources[t.Ref.SourceID]; ok && kind != t.Kind {
		return fmt.Errorf("%w: source %d mixes %s and %s tiles", ErrInvalidDefinition, t.Ref.SourceID, kind, t.Kind)
	}
	if t.Ref.IsEmpty() {
		return fmt.Errorf("%w: negative source id %d", ErrInvalidDefinition, t.Ref.SourceID)
	}
	ts.sources[t.Ref.SourceID] = t.Kind
	if i, ok := ts.byRef[t.Ref]; ok {
		ts.tiles[i] = t
		return nil
	}
	ts.byRef[t.Ref] = len(ts.tiles)
	ts.tiles = append(ts.tiles, t)
	return nil
}

func (ts *TileSet) Shape() grid.Shape {
	return ts.shape
}

func (ts *TileSet) TerrainSetCount() int {
	return len(ts.sets)
}

func (ts *TileSet) TerrainCount(terrainSet int) int {
	if terrainSet < 0 || terrainSet >= len(ts.sets) {
		return 0
	}
	return len(ts.sets[terrainSet].Terrains)
}

func (ts *TileSet) TerrainSet(i int) (TerrainSet, bool) {
	if i < 0 || i >= len(ts.sets) {
		return TerrainSet{}, false
	}
	return ts.sets[i], true
}

func (ts *TileSet) Terrain(terrainSet, terrain int) (Terrain, bool) {
	if terrain < 0 || terrain >= ts.TerrainCount(terrainSet) {
		return Terrain{}, false
	}
	return ts.sets[terrainSet].Terrains[terrain], true
}

// IsValidPeeringBitTerrain reports whether a bit takes part in terrain
// matching for the set: the shape must define the bit and the set's mode
// must match that kind of bit.
func (ts *TileSet) IsValidPeeringBitTerrain(terrainSet int, bit grid.Neighbor) bool {
	if terrainSet < 0 || terrainSet >= len(ts.sets) {
		return false
	}
	if !ts.shape.IsValidPeeringBit(bit) {
		return false
	}
	switch ts.sets[terrainSet].Mode {
	case MatchCorners:
		return bit.IsCorner()
	case MatchSides:
		return bit.IsSide()
	default:
		return true
	}
}

// Tiles returns every tile sorted by reference.
func (ts *TileSet) Tiles() []Tile {
	out := append([]Tile(nil), ts.tiles...)
	sort.Slice(out, func(i, j int) bool { return out[i].Ref.Less(out[j].Ref) })
	return out
}

func (ts *TileSet) Tile(ref TileRef) (Tile, bool) {
	i, ok := ts.byRef[ref]
	if !ok {
		return Tile{}, false
	}
	return ts.tiles[i], true
}
