package terrain

import (
	"log/slog"
	"math/rand"
	"sort"

	"github.com/milk9111/terrains/grid"
	"github.com/milk9111/terrains/tileset"
)

// Variant is a concrete tile realizing a pattern.
type Variant struct {
	Ref         tileset.TileRef
	TerrainSet  int
	Pattern     Pattern
	Probability float64
}

type setCatalog struct {
	bits      []grid.Neighbor
	terrains  int
	patterns  []Pattern
	variants  map[Pattern][]Variant
	byTerrain [][]Pattern
}

// Catalog indexes the tiles of a tile set by terrain set and pattern. It is
// a snapshot: call Rebuild after the tile set changes.
type Catalog struct {
	shape grid.Shape
	sets  []setCatalog
	tiles map[tileset.TileRef]Variant
	log   *slog.Logger
}

func NewCatalog(ts TileSet, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Catalog{log: logger}
	c.Rebuild(ts)
	return c
}

// Rebuild discards the index and reads the tile set again.
func (c *Catalog) Rebuild(ts TileSet) {
	c.shape = ts.Shape()
	c.sets = make([]setCatalog, ts.TerrainSetCount())
	c.tiles = make(map[tileset.TileRef]Variant)

	for i := range c.sets {
		set := &c.sets[i]
		for n := grid.Neighbor(0); n < grid.NeighborCount; n++ {
			if ts.IsValidPeeringBitTerrain(i, n) {
				set.bits = append(set.bits, n)
			}
		}
		set.terrains = ts.TerrainCount(i)
		set.variants = make(map[Pattern][]Variant)
		set.byTerrain = make([][]Pattern, set.terrains)
	}

	skipped := 0
	for _, tile := range ts.Tiles() {
		if tile.Kind != tileset.TileAtlas || tile.TerrainSet < 0 {
			continue
		}
		if tile.TerrainSet >= len(c.sets) {
			c.log.Warn("catalog: tile references unknown terrain set", "tile", tile.Ref.String(), "terrain_set", tile.TerrainSet)
			skipped++
			continue
		}
		set := &c.sets[tile.TerrainSet]
		terrains := make([]int, len(set.bits))
		for i, bit := range set.bits {
			terrains[i] = tile.Terrain(bit)
		}
		p := NewPattern(terrains...)

		hasTerrain := false
		for _, t := range terrains {
			if t >= 0 && t < set.terrains {
				hasTerrain = true
				break
			}
		}
		if !hasTerrain {
			continue
		}

		prob := tile.Probability
		if prob <= 0 {
			prob = 1
		}
		v := Variant{Ref: tile.Ref, TerrainSet: tile.TerrainSet, Pattern: p, Probability: prob}
		if _, ok := set.variants[p]; !ok {
			set.patterns = append(set.patterns, p)
		}
		set.variants[p] = append(set.variants[p], v)
		c.tiles[tile.Ref] = v
	}

	for i := range c.sets {
		set := &c.sets[i]
		empty := EmptyPattern(len(set.bits))
		set.patterns = append(set.patterns, empty)
		set.variants[empty] = []Variant{{Ref: tileset.EmptyRef, TerrainSet: i, Pattern: empty, Probability: 1}}

		sort.Slice(set.patterns, func(a, b int) bool { return set.patterns[a].Less(set.patterns[b]) })
		for _, variants := range set.variants {
			sort.SliceStable(variants, func(a, b int) bool { return variants[a].Ref.Less(variants[b].Ref) })
		}
		for _, p := range set.patterns {
			seen := make(map[int]bool)
			for _, t := range p.Terrains() {
				if t >= 0 && t < set.terrains && !seen[t] {
					seen[t] = true
					set.byTerrain[t] = append(set.byTerrain[t], p)
				}
			}
		}
		for t, patterns := range set.byTerrain {
			sort.SliceStable(patterns, func(a, b int) bool { return patterns[a].Count(t) > patterns[b].Count(t) })
		}
	}

	c.log.Debug("catalog: rebuilt", "terrain_sets", len(c.sets), "tiles", len(c.tiles), "skipped", skipped)
}

func (c *Catalog) Shape() grid.Shape {
	return c.shape
}

func (c *Catalog) TerrainSetCount() int {
	return len(c.sets)
}

func (c *Catalog) set(terrainSet int) (*setCatalog, bool) {
	if terrainSet < 0 || terrainSet >= len(c.sets) {
		return nil, false
	}
	return &c.sets[terrainSet], true
}

// Bits returns the peering bits of a terrain set's patterns, in order.
func (c *Catalog) Bits(terrainSet int) []grid.Neighbor {
	set, ok := c.set(terrainSet)
	if !ok {
		return nil
	}
	return set.bits
}

func (c *Catalog) TerrainCount(terrainSet int) int {
	set, ok := c.set(terrainSet)
	if !ok {
		return 0
	}
	return set.terrains
}

// Patterns returns every pattern of the terrain set that some tile
// realizes, the empty pattern included, sorted.
func (c *Catalog) Patterns(terrainSet int) []Pattern {
	set, ok := c.set(terrainSet)
	if !ok {
		return nil
	}
	return set.patterns
}

func (c *Catalog) Variants(terrainSet int, p Pattern) []Variant {
	set, ok := c.set(terrainSet)
	if !ok {
		return nil
	}
	return set.variants[p]
}

func (c *Catalog) Has(terrainSet int, p Pattern) bool {
	return len(c.Variants(terrainSet, p)) > 0
}

// PatternsForTerrain lists the patterns using a terrain, those with the
// most bits of that terrain first.
func (c *Catalog) PatternsForTerrain(terrainSet, terrain int) []Pattern {
	set, ok := c.set(terrainSet)
	if !ok || terrain < 0 || terrain >= set.terrains {
		return nil
	}
	return set.byTerrain[terrain]
}

// Lookup returns the terrain variant of a placed tile.
func (c *Catalog) Lookup(ref tileset.TileRef) (Variant, bool) {
	v, ok := c.tiles[ref]
	return v, ok
}

// Closest returns the catalog pattern sharing the most bits with p. Ties go
// to the first pattern in order.
func (c *Catalog) Closest(terrainSet int, p Pattern) (Pattern, bool) {
	set, ok := c.set(terrainSet)
	if !ok || p.Len() != len(set.bits) {
		return Pattern{}, false
	}
	if _, ok := set.variants[p]; ok {
		return p, true
	}
	best, bestScore := Pattern{}, -1
	for _, candidate := range set.patterns {
		score := 0
		for i := 0; i < p.Len(); i++ {
			if candidate.At(i) == p.At(i) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, bestScore >= 0
}

// Pick draws a variant of the pattern, weighted by probability.
func (c *Catalog) Pick(rng *rand.Rand, terrainSet int, p Pattern) (Variant, bool) {
	variants := c.Variants(terrainSet, p)
	if len(variants) == 0 {
		return Variant{}, false
	}
	sum := 0.0
	for _, v := range variants {
		sum += v.Probability
	}
	picked := rng.Float64() * sum
	count := 0.0
	for _, v := range variants {
		count += v.Probability
		if count >= picked {
			return v, true
		}
	}
	return variants[len(variants)-1], true
}
