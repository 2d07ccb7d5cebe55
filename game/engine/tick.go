package engine

import (
	"fmt"
	"math/rand"
	"time"
)

// AdvanceTick executes one simulation step. It is a no-op unless the game is
// playing. Returns true when the snake moved, false when the tick ended the
// run (or did not execute).
//
// Order of operations: latch the buffered heading, compute the new head,
// check walls, check self collision, then either grow on food or shift
// forward. The current tail segment is exempt from the self check because it
// vacates on this same tick unless food is eaten; the exemption holds on
// growth moves too, where the tail actually stays put. That leniency matches
// the classic rule and is kept on purpose.
func (gs *GameState) AdvanceTick(config *GameConfig, rng *rand.Rand) bool {
	if gs.Status != StatusPlaying {
		return false
	}

	applied := gs.Direction
	gs.LastApplied = applied

	newHead := gs.Snake[0].Translate(applied)

	if !InBounds(newHead, gs.GridSize) {
		gs.endRun(CauseWall, config)
		return false
	}

	for _, segment := range gs.Snake[:len(gs.Snake)-1] {
		if segment == newHead {
			gs.endRun(CauseSelf, config)
			return false
		}
	}

	if newHead == gs.Food {
		// Growth move: keep the tail, bump score, tighten the cadence down to
		// the floor, then respawn food off the grown snake.
		gs.Snake = append([]Point{newHead}, gs.Snake...)
		gs.Score += config.FoodScore
		gs.Speed -= config.SpeedStepMs
		if gs.Speed < config.MinSpeedMs {
			gs.Speed = config.MinSpeedMs
		}
		gs.Message = fmt.Sprintf(config.Messages.FoodEaten, gs.Score)
		if gs.Score > gs.HighScore {
			gs.HighScore = gs.Score
			gs.Message = fmt.Sprintf(config.Messages.NewHighScore, gs.HighScore)
		}
		gs.Food = RandomFreeCell(rng, gs.GridSize, gs.Snake)
	} else {
		gs.Snake = append([]Point{newHead}, gs.Snake[:len(gs.Snake)-1]...)
	}

	gs.Ticks++
	return true
}

// endRun transitions to game over and appends the finished run to the
// cumulative ledger. The snake, food, score and speed are left exactly as
// they were before the fatal tick.
func (gs *GameState) endRun(cause GameOverCause, config *GameConfig) {
	gs.Status = StatusGameOver
	gs.Cause = cause

	switch cause {
	case CauseWall:
		gs.Message = fmt.Sprintf(config.Messages.GameOverWall, gs.Score)
	case CauseSelf:
		gs.Message = fmt.Sprintf(config.Messages.GameOverSelf, gs.Score)
	}

	gs.TotalGames++
	gs.Runs = append(gs.Runs, RunRecord{
		RunID:     gs.RunID,
		RunNumber: gs.TotalGames,
		Score:     gs.Score,
		Ticks:     gs.Ticks,
		Length:    len(gs.Snake),
		Cause:     cause,
		EndedAt:   time.Now().Unix(),
	})
}
