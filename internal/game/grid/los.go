package grid

// LineOfSight reports whether a and b can see each other. The line is
// rasterized with Bresenham traversal; sight is blocked only when an interior
// cell (both endpoints excluded) is an obstacle. Occupied cells never block
// sight.
func LineOfSight(b *Battlefield, from, to Position) bool {
	dx := to.X - from.X
	dy := to.Y - from.Y
	absDx, absDy := dx, dy
	if absDx < 0 {
		absDx = -absDx
	}
	if absDy < 0 {
		absDy = -absDy
	}

	stepX, stepY := 1, 1
	if dx < 0 {
		stepX = -1
	}
	if dy < 0 {
		stepY = -1
	}

	err := absDx - absDy
	x, y := from.X, from.Y

	for {
		if x == to.X && y == to.Y {
			return true
		}

		// Interior cells only; the origin is skipped, the target is
		// reached before it is ever tested.
		if (x != from.X || y != from.Y) && b.Obstacle(Position{X: x, Y: y}) {
			return false
		}

		e2 := 2 * err
		if e2 > -absDy {
			err -= absDy
			x += stepX
		}
		if e2 < absDx {
			err += absDx
			y += stepY
		}
	}
}
