package grid

// Line returns the cells a stroke from one cell to another passes through,
// both ends included. Square maps use Bresenham; the offset shapes walk the
// staggered rows (or columns) so every step lands on an adjacent cell.
func (s Shape) Line(from, to Coords) []Coords {
	if s == ShapeSquare {
		return bresenham(from, to)
	}
	if s == ShapeHalfOffsetVertical {
		line := staggeredLine(transpose(from), transpose(to))
		for i := range line {
			line[i] = transpose(line[i])
		}
		return line
	}
	return staggeredLine(from, to)
}

func bresenham(from, to Coords) []Coords {
	var points []Coords
	x0, y0 := from.X, from.Y
	dx := abs(to.X - x0)
	dy := -abs(to.Y - y0)
	sx := 1
	if x0 >= to.X {
		sx = -1
	}
	sy := 1
	if y0 >= to.Y {
		sy = -1
	}
	err := dx + dy
	for {
		points = append(points, C(x0, y0))
		if x0 == to.X && y0 == to.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
	return points
}

// staggeredLine walks rows where odd rows are shifted right by half a cell.
// x distances are measured in half cells so the error term stays integral.
func staggeredLine(from, to Coords) []Coords {
	dx := 2*(to.X-from.X) + (to.Y & 1) - (from.Y & 1)
	dy := to.Y - from.Y
	sx, sy := sign(dx), sign(dy)
	adx, ady := abs(dx), abs(dy)

	current := from
	points := []Coords{current}
	limit := adx + ady + 1
	err := 0
	if ady < adx {
		stepX, stepY := 3*adx, 3*ady
		for current != to && len(points) <= limit {
			err += stepY
			if err > adx {
				current = current.Add(C(diagonalX(current, sx, sx < 0), sy))
				err -= stepX
			} else {
				current = current.Add(C(sx, 0))
				err += stepY
			}
			points = append(points, current)
		}
		return points
	}

	for current != to && len(points) <= limit {
		err += adx
		if err > 0 {
			if sx == 0 {
				current = current.Add(C(0, sy))
			} else {
				current = current.Add(C(diagonalX(current, sx, sx < 0), sy))
			}
			err -= ady
		} else {
			if sx == 0 {
				current = current.Add(C(0, sy))
			} else {
				current = current.Add(C(diagonalX(current, -sx, sx > 0), sy))
			}
			err += ady
		}
		points = append(points, current)
	}
	return points
}

// diagonalX is the x step taken together with a row change. It depends on
// the parity of the row being left.
func diagonalX(c Coords, step int, flip bool) int {
	if odd(c.Y) != flip {
		return step
	}
	return 0
}

func transpose(c Coords) Coords {
	return C(c.Y, c.X)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
