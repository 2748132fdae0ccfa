package grid

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownNeighbor = errors.New("grid: unknown neighbor")

// Neighbor is a direction from a cell toward one of its sides or corners.
// The declaration order is also the order of bits in a terrain pattern.
type Neighbor uint8

const (
	RightSide Neighbor = iota
	RightCorner
	BottomRightSide
	BottomRightCorner
	BottomSide
	BottomCorner
	BottomLeftSide
	BottomLeftCorner
	LeftSide
	LeftCorner
	TopLeftSide
	TopLeftCorner
	TopSide
	TopCorner
	TopRightSide
	TopRightCorner
	NeighborCount
)

var neighborNames = [NeighborCount]string{
	"right_side",
	"right_corner",
	"bottom_right_side",
	"bottom_right_corner",
	"bottom_side",
	"bottom_corner",
	"bottom_left_side",
	"bottom_left_corner",
	"left_side",
	"left_corner",
	"top_left_side",
	"top_left_corner",
	"top_side",
	"top_corner",
	"top_right_side",
	"top_right_corner",
}

func (n Neighbor) String() string {
	if n >= NeighborCount {
		return fmt.Sprintf("neighbor(%d)", uint8(n))
	}
	return neighborNames[n]
}

func (n Neighbor) IsSide() bool {
	return n%2 == 0
}

func (n Neighbor) IsCorner() bool {
	return n%2 == 1
}

// Opposite returns the direction pointing back from the neighbor.
func (n Neighbor) Opposite() Neighbor {
	return (n + NeighborCount/2) % NeighborCount
}

func ParseNeighbor(s string) (Neighbor, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range neighborNames {
		if name == key {
			return Neighbor(i), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownNeighbor, s)
}
