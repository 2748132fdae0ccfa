package grid

import "testing"

var allShapes = []Shape{ShapeSquare, ShapeIsometric, ShapeHalfOffsetHorizontal, ShapeHalfOffsetVertical}

func TestNeighborOpposite(t *testing.T) {
	for n := Neighbor(0); n < NeighborCount; n++ {
		if n.Opposite().Opposite() != n {
			t.Fatalf("opposite of opposite of %s is %s", n, n.Opposite().Opposite())
		}
		if n.IsSide() != n.Opposite().IsSide() {
			t.Fatalf("%s and %s disagree on side/corner", n, n.Opposite())
		}
	}
	if RightSide.Opposite() != LeftSide || TopRightCorner.Opposite() != BottomLeftCorner {
		t.Fatalf("unexpected opposites")
	}
}

func TestNeighborCellRoundTrip(t *testing.T) {
	cells := []Coords{C(0, 0), C(1, 0), C(0, 1), C(1, 1), C(-1, -1), C(-2, 3), C(5, -7)}
	for _, s := range allShapes {
		t.Run(s.String(), func(t *testing.T) {
			for _, c := range cells {
				for _, n := range s.NeighborDirections() {
					back := s.NeighborCell(s.NeighborCell(c, n), n.Opposite())
					if back != c {
						t.Fatalf("%s from %v then %s gives %v", n, c, n.Opposite(), back)
					}
				}
			}
		})
	}
}

func TestPeeringBitCounts(t *testing.T) {
	cases := []struct {
		shape     Shape
		bits      int
		neighbors int
	}{
		{ShapeSquare, 8, 8},
		{ShapeIsometric, 8, 8},
		{ShapeHalfOffsetHorizontal, 12, 6},
		{ShapeHalfOffsetVertical, 12, 6},
	}
	for _, c := range cases {
		t.Run(c.shape.String(), func(t *testing.T) {
			if got := len(c.shape.PeeringBits()); got != c.bits {
				t.Fatalf("expected %d peering bits, got %d", c.bits, got)
			}
			if got := len(c.shape.SurroundingCells(C(3, 3))); got != c.neighbors {
				t.Fatalf("expected %d surrounding cells, got %d", c.neighbors, got)
			}
			bits := c.shape.PeeringBits()
			for i := 1; i < len(bits); i++ {
				if bits[i-1] >= bits[i] {
					t.Fatalf("peering bits out of order: %s before %s", bits[i-1], bits[i])
				}
			}
		})
	}
}

func TestIsometricNeighbors(t *testing.T) {
	cases := []struct {
		from Coords
		dir  Neighbor
		want Coords
	}{
		{C(0, 0), BottomRightSide, C(0, 1)},
		{C(0, 1), BottomRightSide, C(1, 2)},
		{C(0, 0), TopLeftSide, C(-1, -1)},
		{C(0, 1), TopLeftSide, C(0, 0)},
		{C(0, 0), BottomCorner, C(0, 2)},
		{C(0, 0), RightCorner, C(1, 0)},
		{C(0, -1), BottomLeftSide, C(0, 0)},
	}
	for _, c := range cases {
		if got := ShapeIsometric.NeighborCell(c.from, c.dir); got != c.want {
			t.Fatalf("%v toward %s: expected %v, got %v", c.from, c.dir, c.want, got)
		}
	}
}

func TestNeighborCellPanicsForMissingDirection(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a hexagon corner neighbor")
		}
	}()
	ShapeHalfOffsetHorizontal.NeighborCell(C(0, 0), BottomCorner)
}

func TestParseShape(t *testing.T) {
	for _, s := range allShapes {
		got, err := ParseShape(s.String())
		if err != nil || got != s {
			t.Fatalf("parse %q: got %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseShape("hexagon"); err == nil {
		t.Fatalf("expected error for unknown shape")
	}
}

func TestLine(t *testing.T) {
	cases := []struct {
		name     string
		shape    Shape
		from, to Coords
		length   int
	}{
		{"square horizontal", ShapeSquare, C(0, 0), C(4, 0), 5},
		{"square diagonal", ShapeSquare, C(0, 0), C(-3, -3), 4},
		{"square steep", ShapeSquare, C(2, 1), C(4, 7), 7},
		{"hex row", ShapeHalfOffsetHorizontal, C(0, 0), C(3, 0), 4},
		{"hex down", ShapeHalfOffsetHorizontal, C(0, 0), C(0, 2), 3},
		{"hex shallow", ShapeHalfOffsetHorizontal, C(0, 0), C(3, 1), 5},
		{"hex steep", ShapeHalfOffsetHorizontal, C(0, 0), C(1, 3), 4},
		{"hex negative", ShapeHalfOffsetHorizontal, C(0, 0), C(-2, -3), 4},
		{"iso steep", ShapeIsometric, C(0, 0), C(1, 3), 4},
		{"vertical hex column", ShapeHalfOffsetVertical, C(0, 0), C(0, 3), 4},
		{"vertical hex steep", ShapeHalfOffsetVertical, C(0, 0), C(3, 1), 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			line := c.shape.Line(c.from, c.to)
			if len(line) != c.length {
				t.Fatalf("expected %d cells, got %d: %v", c.length, len(line), line)
			}
			if line[0] != c.from || line[len(line)-1] != c.to {
				t.Fatalf("line %v does not run from %v to %v", line, c.from, c.to)
			}
			for i := 1; i < len(line); i++ {
				if !adjacent(c.shape, line[i-1], line[i]) {
					t.Fatalf("%v and %v are not adjacent in %v", line[i-1], line[i], line)
				}
			}
		})
	}
}

func adjacent(s Shape, a, b Coords) bool {
	for _, n := range s.SurroundingCells(a) {
		if n == b {
			return true
		}
	}
	return false
}

func TestCellSetSorted(t *testing.T) {
	s := NewCellSet(C(1, 0), C(0, 5), C(0, -1), C(-3, 2))
	got := s.Sorted()
	want := []Coords{C(-3, 2), C(0, -1), C(0, 5), C(1, 0)}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
