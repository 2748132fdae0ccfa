package terrain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/terrains/tileset"
)

// MaxPatternBits is the largest number of peering bits any shape defines.
const MaxPatternBits = 12

// Pattern lists one terrain id per valid peering bit of a terrain set, in
// peering bit order. tileset.NoTerrain marks a bit without terrain.
type Pattern struct {
	n    uint8
	bits [MaxPatternBits]int
}

func NewPattern(terrains ...int) Pattern {
	if len(terrains) > MaxPatternBits {
		panic(fmt.Sprintf("terrain: pattern with %d bits", len(terrains)))
	}
	var p Pattern
	p.n = uint8(len(terrains))
	copy(p.bits[:], terrains)
	return p
}

// UniformPattern sets every one of n bits to terrain.
func UniformPattern(n, terrain int) Pattern {
	terrains := make([]int, n)
	for i := range terrains {
		terrains[i] = terrain
	}
	return NewPattern(terrains...)
}

// EmptyPattern is the pattern of a cell without terrain.
func EmptyPattern(n int) Pattern {
	return UniformPattern(n, tileset.NoTerrain)
}

func (p Pattern) Len() int {
	return int(p.n)
}

func (p Pattern) At(i int) int {
	return p.bits[i]
}

// With returns a copy with bit i set. It panics if i is out of range.
func (p Pattern) With(i, terrain int) Pattern {
	if i < 0 || i >= p.Len() {
		panic(fmt.Sprintf("terrain: bit %d out of range for a %d-bit pattern", i, p.Len()))
	}
	p.bits[i] = terrain
	return p
}

func (p Pattern) Terrains() []int {
	return append([]int(nil), p.bits[:p.n]...)
}

// Count returns how many bits carry the terrain.
func (p Pattern) Count(terrain int) int {
	n := 0
	for _, t := range p.bits[:p.n] {
		if t == terrain {
			n++
		}
	}
	return n
}

func (p Pattern) IsEmpty() bool {
	return p.Count(tileset.NoTerrain) == p.Len()
}

// Less orders patterns bit by bit, shorter first on a shared prefix.
func (p Pattern) Less(o Pattern) bool {
	n := min(p.n, o.n)
	for i := uint8(0); i < n; i++ {
		if p.bits[i] != o.bits[i] {
			return p.bits[i] < o.bits[i]
		}
	}
	return p.n < o.n
}

func (p Pattern) String() string {
	parts := make([]string, p.n)
	for i, t := range p.bits[:p.n] {
		parts[i] = strconv.Itoa(t)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParsePattern reads a pattern written by String or as a comma separated
// list of terrain ids.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) > MaxPatternBits {
		return Pattern{}, fmt.Errorf("%w: %d bits, at most %d", ErrPatternLength, len(fields), MaxPatternBits)
	}
	terrains := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return Pattern{}, fmt.Errorf("pattern bit %d: %w", i, err)
		}
		if v < tileset.NoTerrain {
			return Pattern{}, fmt.Errorf("pattern bit %d: terrain %d", i, v)
		}
		terrains[i] = v
	}
	return NewPattern(terrains...), nil
}
