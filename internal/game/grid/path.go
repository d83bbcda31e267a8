package grid

// steps are the four orthogonal directions. Diagonal steps are excluded so
// path length on an open board always equals the Manhattan distance and the
// Manhattan heuristic stays admissible.
var steps = [4]Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

type pathNode struct {
	pos    Position
	g      int // steps taken from start
	f      int // g + Manhattan distance to end
	parent *pathNode
}

// FindPath runs an A* search from start to end and returns the full cell
// sequence from start to end inclusive, or nil when no path exists within the
// reachable region. The end cell is exempt from the blocking check even if
// occupied, so callers can path up to an occupied target and truncate.
//
// Ties on the f score are broken by open-set insertion order.
//
// Precondition: start and end must be in bounds.
// Postcondition: a non-nil result begins at start, ends at end, and each
// consecutive pair differs by exactly one orthogonal step.
func FindPath(b *Battlefield, occ Occupancy, start, end Position, excludeID string) []Position {
	if !b.InBounds(start) || !b.InBounds(end) {
		return nil
	}
	if start == end {
		return []Position{start}
	}

	passable := func(p Position) bool {
		if p == end {
			return b.InBounds(p) && !b.Obstacle(p)
		}
		return !Blocked(b, occ, p, excludeID)
	}

	open := []*pathNode{{pos: start, g: 0, f: Manhattan(start, end)}}
	closed := make(map[Position]bool)

	for len(open) > 0 {
		// Find the node with the lowest f score; strict less keeps the
		// earliest-inserted node on ties.
		minIdx := 0
		for i := 1; i < len(open); i++ {
			if open[i].f < open[minIdx].f {
				minIdx = i
			}
		}
		curr := open[minIdx]
		open = append(open[:minIdx], open[minIdx+1:]...)

		if curr.pos == end {
			return reconstruct(curr)
		}
		closed[curr.pos] = true

		for _, d := range steps {
			next := Position{X: curr.pos.X + d.X, Y: curr.pos.Y + d.Y}
			if closed[next] || !passable(next) {
				continue
			}

			newG := curr.g + 1
			newF := newG + Manhattan(next, end)

			// Update in place when already queued with a worse score.
			inOpen := false
			for _, n := range open {
				if n.pos == next {
					inOpen = true
					if newG < n.g {
						n.g = newG
						n.f = newF
						n.parent = curr
					}
					break
				}
			}
			if !inOpen {
				open = append(open, &pathNode{pos: next, g: newG, f: newF, parent: curr})
			}
		}
	}

	return nil
}

// reconstruct walks parent links back to the start and reverses the result.
func reconstruct(n *pathNode) []Position {
	var rev []Position
	for ; n != nil; n = n.parent {
		rev = append(rev, n.pos)
	}
	out := make([]Position, len(rev))
	for i, p := range rev {
		out[len(rev)-1-i] = p
	}
	return out
}
