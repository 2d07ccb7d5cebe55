package engine

import "math/rand"

// InBounds reports whether p lies inside the gridSize x gridSize board
func InBounds(p Point, gridSize int) bool {
	return p.X >= 0 && p.X < gridSize && p.Y >= 0 && p.Y < gridSize
}

// ContainsPoint reports whether p equals any element of points
func ContainsPoint(points []Point, p Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// RandomFreeCell samples a uniformly random cell that is not occupied,
// rejecting and resampling until a free cell comes up. It terminates whenever
// a free cell exists; the game ends on self collision long before the snake
// could fill the grid.
func RandomFreeCell(rng *rand.Rand, gridSize int, occupied []Point) Point {
	for {
		p := Point{X: rng.Intn(gridSize), Y: rng.Intn(gridSize)}
		if !ContainsPoint(occupied, p) {
			return p
		}
	}
}
