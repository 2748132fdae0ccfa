package grid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownShape = errors.New("grid: unknown tile shape")

// Shape is the cell geometry of a tile set. Every shape uses the stacked
// layout: isometric and half-offset-horizontal maps shift odd rows right by
// half a cell, half-offset-vertical maps shift odd columns down.
type Shape uint8

const (
	ShapeSquare Shape = iota
	ShapeIsometric
	ShapeHalfOffsetHorizontal
	ShapeHalfOffsetVertical
	shapeCount
)

var shapeNames = [shapeCount]string{
	"square",
	"isometric",
	"half_offset_horizontal",
	"half_offset_vertical",
}

func (s Shape) String() string {
	if s >= shapeCount {
		return fmt.Sprintf("shape(%d)", uint8(s))
	}
	return shapeNames[s]
}

func (s Shape) Valid() bool {
	return s < shapeCount
}

func ParseShape(name string) (Shape, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range shapeNames {
		if n == key {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownShape, name)
}

var peeringBits = [shapeCount][]Neighbor{
	ShapeSquare: {
		RightSide, BottomRightCorner, BottomSide, BottomLeftCorner,
		LeftSide, TopLeftCorner, TopSide, TopRightCorner,
	},
	ShapeIsometric: {
		RightCorner, BottomRightSide, BottomCorner, BottomLeftSide,
		LeftCorner, TopLeftSide, TopCorner, TopRightSide,
	},
	ShapeHalfOffsetHorizontal: {
		RightSide, BottomRightSide, BottomRightCorner, BottomCorner,
		BottomLeftSide, BottomLeftCorner, LeftSide, TopLeftSide,
		TopLeftCorner, TopCorner, TopRightSide, TopRightCorner,
	},
	ShapeHalfOffsetVertical: {
		RightCorner, BottomRightSide, BottomRightCorner, BottomSide,
		BottomLeftSide, BottomLeftCorner, LeftCorner, TopLeftSide,
		TopLeftCorner, TopSide, TopRightSide, TopRightCorner,
	},
}

var neighborDirs = [shapeCount][]Neighbor{
	ShapeSquare: peeringBits[ShapeSquare],
	ShapeIsometric: peeringBits[ShapeIsometric],
	ShapeHalfOffsetHorizontal: {
		RightSide, BottomRightSide, BottomLeftSide, LeftSide, TopLeftSide, TopRightSide,
	},
	ShapeHalfOffsetVertical: {
		BottomRightSide, BottomSide, BottomLeftSide, TopLeftSide, TopSide, TopRightSide,
	},
}

// PeeringBits lists the peering bits the shape defines, in Neighbor order.
func (s Shape) PeeringBits() []Neighbor {
	if !s.Valid() {
		return nil
	}
	return peeringBits[s]
}

func (s Shape) IsValidPeeringBit(n Neighbor) bool {
	for _, b := range s.PeeringBits() {
		if b == n {
			return true
		}
	}
	return false
}

// NeighborDirections lists the directions that lead to an adjacent cell.
func (s Shape) NeighborDirections() []Neighbor {
	if !s.Valid() {
		return nil
	}
	return neighborDirs[s]
}

func (s Shape) HasNeighbor(n Neighbor) bool {
	_, ok := s.offset(C(0, 0), n)
	return ok
}

// NeighborCell returns the cell across the given side or corner. It panics
// when the direction does not lead to a cell for this shape.
func (s Shape) NeighborCell(c Coords, n Neighbor) Coords {
	o, ok := s.offset(c, n)
	if !ok {
		panic(fmt.Sprintf("grid: %s has no neighbor cell toward %s", s, n))
	}
	return c.Add(o)
}

// SurroundingCells returns every adjacent cell in Neighbor order.
func (s Shape) SurroundingCells(c Coords) []Coords {
	dirs := s.NeighborDirections()
	out := make([]Coords, 0, len(dirs))
	for _, n := range dirs {
		out = append(out, s.NeighborCell(c, n))
	}
	return out
}

func odd(v int) bool {
	return v&1 != 0
}

func pick(cond bool, a, b int) int {
	if cond {
		return a
	}
	return b
}

func (s Shape) offset(c Coords, n Neighbor) (Coords, bool) {
	switch s {
	case ShapeSquare:
		switch n {
		case RightSide:
			return C(1, 0), true
		case BottomRightCorner:
			return C(1, 1), true
		case BottomSide:
			return C(0, 1), true
		case BottomLeftCorner:
			return C(-1, 1), true
		case LeftSide:
			return C(-1, 0), true
		case TopLeftCorner:
			return C(-1, -1), true
		case TopSide:
			return C(0, -1), true
		case TopRightCorner:
			return C(1, -1), true
		}
	case ShapeIsometric, ShapeHalfOffsetHorizontal:
		shifted := odd(c.Y)
		switch n {
		case BottomRightSide:
			return C(pick(shifted, 1, 0), 1), true
		case BottomLeftSide:
			return C(pick(shifted, 0, -1), 1), true
		case TopLeftSide:
			return C(pick(shifted, 0, -1), -1), true
		case TopRightSide:
			return C(pick(shifted, 1, 0), -1), true
		}
		if s == ShapeIsometric {
			switch n {
			case RightCorner:
				return C(1, 0), true
			case BottomCorner:
				return C(0, 2), true
			case LeftCorner:
				return C(-1, 0), true
			case TopCorner:
				return C(0, -2), true
			}
		} else {
			switch n {
			case RightSide:
				return C(1, 0), true
			case LeftSide:
				return C(-1, 0), true
			}
		}
	case ShapeHalfOffsetVertical:
		shifted := odd(c.X)
		switch n {
		case BottomRightSide:
			return C(1, pick(shifted, 1, 0)), true
		case BottomSide:
			return C(0, 1), true
		case BottomLeftSide:
			return C(-1, pick(shifted, 1, 0)), true
		case TopLeftSide:
			return C(-1, pick(shifted, 0, -1)), true
		case TopSide:
			return C(0, -1), true
		case TopRightSide:
			return C(1, pick(shifted, 0, -1)), true
		}
	}
	return Coords{}, false
}
