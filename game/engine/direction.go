package engine

import "strings"

// Valid reports whether d is one of the four movement headings
func (d Direction) Valid() bool {
	switch d {
	case DirUp, DirDown, DirLeft, DirRight:
		return true
	}
	return false
}

// Delta returns the per-tick cell offset for the heading
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	}
	return 0, 0
}

// Opposite returns the reversal of the heading. Invalid headings are returned
// unchanged.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	}
	return d
}

// IsOpposite reports whether a and b form one of the four reversal pairs.
// Equal headings are not opposites.
func IsOpposite(a, b Direction) bool {
	return a.Valid() && a.Opposite() == b
}

// RequestTurn validates a direction request against the heading actually
// applied on the most recent tick. It returns the heading to buffer and
// whether the request was accepted. Reversals are silently dropped: legality
// is judged against the executed heading, not the most recently requested
// one, so rapid double-taps between ticks cannot fold the snake onto itself.
func RequestTurn(requested, lastApplied Direction) (Direction, bool) {
	if !requested.Valid() || IsOpposite(requested, lastApplied) {
		return "", false
	}
	return requested, true
}

// ParseDirection maps raw input to a heading. Unmapped input yields ok=false
// and callers ignore it without touching state.
func ParseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirUp:
		return DirUp, true
	case DirDown:
		return DirDown, true
	case DirLeft:
		return DirLeft, true
	case DirRight:
		return DirRight, true
	}
	return "", false
}

// Translate returns the point one cell away along the heading
func (p Point) Translate(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}
