package grid

import "github.com/pdrpinto/pfield"

// Compass offsets in enumeration order. Cardinals come first so that ties
// in the walker prefer straight moves.
var (
	cardinals = [4]pfield.Point{
		{X: 0, Y: -1}, // N
		{X: 1, Y: 0},  // E
		{X: 0, Y: 1},  // S
		{X: -1, Y: 0}, // W
	}
	diagonals = [4]pfield.Point{
		{X: -1, Y: -1}, // NW, between W and N
		{X: 1, Y: -1},  // NE, between N and E
		{X: 1, Y: 1},   // SE, between E and S
		{X: -1, Y: 1},  // SW, between S and W
	}
)

// Neighbors returns the walkable cells reachable from p in the order
// N, E, S, W, NW, NE, SE, SW, keeping only the diagonals dm permits. An
// unknown policy permits none.
func (g *Grid) Neighbors(p pfield.Point, dm pfield.DiagonalMovement) []pfield.Point {
	neighbors := make([]pfield.Point, 0, 8)

	var open [4]bool
	for i, d := range cardinals {
		n := pfield.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if g.IsWalkableAt(n.X, n.Y) {
			open[i] = true
			neighbors = append(neighbors, n)
		}
	}

	if dm == pfield.Never || !dm.IsValid() {
		return neighbors
	}

	for i, d := range diagonals {
		// diagonal i cuts past cardinals i-1 and i
		before, after := open[(i+3)%4], open[i]
		switch dm {
		case pfield.OnlyWhenNoObstacles:
			if !before || !after {
				continue
			}
		case pfield.IfAtMostOneObstacle:
			if !before && !after {
				continue
			}
		}
		n := pfield.Point{X: p.X + d.X, Y: p.Y + d.Y}
		if g.IsWalkableAt(n.X, n.Y) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}
