package grid

import (
	"fmt"
	"sort"
)

// Coords addresses a cell of a tile map.
type Coords struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

func C(x, y int) Coords {
	return Coords{X: x, Y: y}
}

func (c Coords) Add(o Coords) Coords {
	return Coords{X: c.X + o.X, Y: c.Y + o.Y}
}

// Less orders coordinates x first, then y.
func (c Coords) Less(o Coords) bool {
	if c.X == o.X {
		return c.Y < o.Y
	}
	return c.X < o.X
}

func (c Coords) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

func SortCoords(cells []Coords) {
	sort.Slice(cells, func(i, j int) bool { return cells[i].Less(cells[j]) })
}

// CellSet is an unordered set of cells. Sorted gives the deterministic
// traversal order used everywhere a choice depends on iteration.
type CellSet map[Coords]struct{}

func NewCellSet(cells ...Coords) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s[c] = struct{}{}
	}
	return s
}

func (s CellSet) Add(c Coords) {
	s[c] = struct{}{}
}

func (s CellSet) Remove(c Coords) {
	delete(s, c)
}

func (s CellSet) Has(c Coords) bool {
	_, ok := s[c]
	return ok
}

func (s CellSet) Len() int {
	return len(s)
}

func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

func (s CellSet) Sorted() []Coords {
	out := make([]Coords, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	SortCoords(out)
	return out
}

// Peering names one peering bit of one cell.
type Peering struct {
	Cell Coords
	Bit  Neighbor
}
