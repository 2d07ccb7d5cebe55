package engine

// Snapshot builds the read-only render projection of the state. The snake
// slice is deep-copied so renderers can hold the snapshot across ticks
// without observing later mutations.
func (gs *GameState) Snapshot() Snapshot {
	snake := make([]Point, len(gs.Snake))
	copy(snake, gs.Snake)

	return Snapshot{
		RunID:       gs.RunID,
		Status:      gs.Status,
		GridSize:    gs.GridSize,
		Snake:       snake,
		Food:        gs.Food,
		Direction:   gs.Direction,
		LastApplied: gs.LastApplied,
		Score:       gs.Score,
		HighScore:   gs.HighScore,
		Speed:       gs.Speed,
		Ticks:       gs.Ticks,
		Cause:       gs.Cause,
		Message:     gs.Message,
	}
}
