package engine

import (
	"math/rand"
	"testing"
)

func TestInBounds(t *testing.T) {
	tests := []struct {
		p    Point
		size int
		want bool
	}{
		{Point{0, 0}, 10, true},
		{Point{9, 9}, 10, true},
		{Point{5, 0}, 10, true},
		{Point{-1, 5}, 10, false},
		{Point{5, -1}, 10, false},
		{Point{10, 5}, 10, false},
		{Point{5, 10}, 10, false},
	}

	for _, tt := range tests {
		if got := InBounds(tt.p, tt.size); got != tt.want {
			t.Errorf("InBounds((%d,%d), %d): expected %v, got %v", tt.p.X, tt.p.Y, tt.size, tt.want, got)
		}
	}
}

func TestContainsPoint(t *testing.T) {
	points := []Point{{1, 1}, {2, 1}, {3, 1}}

	if !ContainsPoint(points, Point{2, 1}) {
		t.Error("Expected (2,1) to be contained")
	}
	if ContainsPoint(points, Point{1, 2}) {
		t.Error("Expected (1,2) not to be contained")
	}
	if ContainsPoint(nil, Point{0, 0}) {
		t.Error("Expected empty slice to contain nothing")
	}
}

func TestRandomFreeCell_AvoidsOccupied(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	occupied := []Point{{0, 0}, {0, 1}, {1, 0}, {1, 1}}

	for i := 0; i < 200; i++ {
		p := RandomFreeCell(rng, 8, occupied)
		if ContainsPoint(occupied, p) {
			t.Fatalf("Iteration %d: sampled occupied cell (%d,%d)", i, p.X, p.Y)
		}
		if !InBounds(p, 8) {
			t.Fatalf("Iteration %d: sampled out-of-bounds cell (%d,%d)", i, p.X, p.Y)
		}
	}
}

func TestRandomFreeCell_FindsOnlyFreeCell(t *testing.T) {
	// Occupy every cell of a 3x3 board except the center. The sampler has to
	// keep rejecting until it lands there.
	free := Point{1, 1}
	var occupied []Point
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if (Point{x, y}) != free {
				occupied = append(occupied, Point{x, y})
			}
		}
	}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		if p := RandomFreeCell(rng, 3, occupied); p != free {
			t.Fatalf("Expected the only free cell (1,1), got (%d,%d)", p.X, p.Y)
		}
	}
}
