package main

import (
	"github.com/tamikip/GEMINI-SNAKE/game/engine"
)

// Autopilot picks one heading per tick. It is greedy: close the gap to the
// food along the longer axis first, and never steer into a wall, the body, or
// a reversal. The tail cell counts as free because it vacates on the same
// tick the head would enter it.
type Autopilot struct {
	decisions int
}

// NewAutopilot creates a fresh pilot
func NewAutopilot() *Autopilot {
	return &Autopilot{}
}

// Reset clears per-run counters
func (a *Autopilot) Reset() {
	a.decisions = 0
}

// Decisions returns how many headings this pilot has picked since Reset
func (a *Autopilot) Decisions() int {
	return a.decisions
}

// NextDirection returns the heading to request for the upcoming tick. When no
// safe cell exists the current heading comes back; the run is lost either way.
func (a *Autopilot) NextDirection(snap *engine.Snapshot) engine.Direction {
	if len(snap.Snake) == 0 {
		return snap.LastApplied
	}
	a.decisions++

	head := snap.Snake[0]
	for _, dir := range preferredOrder(snap) {
		if engine.IsOpposite(dir, snap.LastApplied) {
			continue
		}
		if safeCell(snap, head.Translate(dir)) {
			return dir
		}
	}
	return snap.LastApplied
}

// preferredOrder ranks all four headings: food-closing moves first with the
// longer axis gap ahead of the shorter one, then the remaining headings as
// fallbacks.
func preferredOrder(snap *engine.Snapshot) []engine.Direction {
	head := snap.Snake[0]
	dx := snap.Food.X - head.X
	dy := snap.Food.Y - head.Y

	horizontal := engine.DirRight
	if dx < 0 {
		horizontal = engine.DirLeft
	}
	vertical := engine.DirDown
	if dy < 0 {
		vertical = engine.DirUp
	}

	var order []engine.Direction
	if dx != 0 && abs(dx) >= abs(dy) {
		order = append(order, horizontal)
		if dy != 0 {
			order = append(order, vertical)
		}
	} else if dy != 0 {
		order = append(order, vertical)
		if dx != 0 {
			order = append(order, horizontal)
		}
	}

	for _, dir := range []engine.Direction{engine.DirUp, engine.DirRight, engine.DirDown, engine.DirLeft} {
		if !containsDir(order, dir) {
			order = append(order, dir)
		}
	}
	return order
}

// safeCell reports whether the head can enter p on the next tick. The tail
// segment is excluded from the body check to match the engine's collision
// rule.
func safeCell(snap *engine.Snapshot, p engine.Point) bool {
	if p.X < 0 || p.Y < 0 || p.X >= snap.GridSize || p.Y >= snap.GridSize {
		return false
	}
	for _, seg := range snap.Snake[:len(snap.Snake)-1] {
		if seg == p {
			return false
		}
	}
	return true
}

func containsDir(dirs []engine.Direction, d engine.Direction) bool {
	for _, x := range dirs {
		if x == d {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
