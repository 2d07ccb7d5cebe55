package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	GetSnapshot() Snapshot
	GetStatus() GameStatus
	GetScore() int
	GetHighScore() int
	GetSpeed() int
	IsPlaying() bool

	// Event handling
	HandleStart() *GameState
	HandleDirectionRequest(direction Direction) *GameState
	HandlePauseToggle() *GameState

	// Tick execution
	Advance() *GameState

	// Configuration
	GetConfig() *GameConfig
	SetConfig(config *GameConfig) error

	// Run ledger
	GetRuns() []RunRecord
	GetLastRun() *RunRecord
	RestoreHighScore(value int)
}

// GameEngine implements the Engine interface
type GameEngine struct {
	state  *GameState
	config *GameConfig
	rng    *rand.Rand
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithSeed(config, time.Now().UnixNano())
}

// NewEngineWithSeed creates a new game engine whose food placement is driven
// by a seeded source, making runs reproducible.
func NewEngineWithSeed(config *GameConfig, seed int64) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	engine := &GameEngine{
		config: config,
		rng:    rng,
		state:  InitGameStateFromConfig(config, rng),
	}

	return engine, nil
}

// NewEngineWithDefaults creates a new game engine with the classic rules
func NewEngineWithDefaults() *GameEngine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	config := DefaultGameConfig()
	return &GameEngine{
		config: config,
		rng:    rng,
		state:  InitGameStateFromConfig(config, rng),
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used when restoring a saved game)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	e.state = state
	return nil
}

// GetSnapshot returns a read-only copy of the current state for renderers
func (e *GameEngine) GetSnapshot() Snapshot {
	return e.state.Snapshot()
}

// GetStatus returns the current lifecycle status
func (e *GameEngine) GetStatus() GameStatus {
	return e.state.Status
}

// GetScore returns the current run's score
func (e *GameEngine) GetScore() int {
	return e.state.Score
}

// GetHighScore returns the best score seen by this engine
func (e *GameEngine) GetHighScore() int {
	return e.state.HighScore
}

// GetSpeed returns the current tick interval in milliseconds
func (e *GameEngine) GetSpeed() int {
	return e.state.Speed
}

// IsPlaying reports whether ticks should be running
func (e *GameEngine) IsPlaying() bool {
	return e.state.Status == StatusPlaying
}

// HandleStart begins a new run from any status via a full reset. The high
// score and the run ledger carry over; everything else is reinitialized from
// the rules, including a fresh run id.
func (e *GameEngine) HandleStart() *GameState {
	// Preserve the cross-game carry-overs across the reset
	high := e.state.HighScore
	runs := e.state.Runs
	total := e.state.TotalGames

	e.state = InitGameStateFromConfig(e.config, e.rng)
	e.state.HighScore = high
	e.state.Runs = runs
	e.state.TotalGames = total

	e.state.Status = StatusPlaying
	e.state.RunID = uuid.NewString()
	e.state.Message = e.config.Messages.Started

	return e.state
}

// HandleDirectionRequest buffers a heading change for the next tick. Illegal
// reversals are dropped against the last applied heading. In idle the first
// directional input auto-starts a run, with the request itself judged against
// the fresh seed heading. Paused and finished games ignore steering.
func (e *GameEngine) HandleDirectionRequest(direction Direction) *GameState {
	switch e.state.Status {
	case StatusIdle:
		e.HandleStart()
		if next, ok := RequestTurn(direction, e.state.LastApplied); ok {
			e.state.Direction = next
		}
	case StatusPlaying:
		if next, ok := RequestTurn(direction, e.state.LastApplied); ok {
			e.state.Direction = next
		}
	}
	return e.state
}

// HandlePauseToggle flips between playing and paused. Other statuses are
// unaffected.
func (e *GameEngine) HandlePauseToggle() *GameState {
	switch e.state.Status {
	case StatusPlaying:
		e.state.Status = StatusPaused
		e.state.Message = e.config.Messages.Paused
	case StatusPaused:
		e.state.Status = StatusPlaying
		e.state.Message = e.config.Messages.Resumed
	}
	return e.state
}

// Advance executes one tick against the current rules
func (e *GameEngine) Advance() *GameState {
	e.state.AdvanceTick(e.config, e.rng)
	return e.state
}

// GetConfig returns the current rules configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// SetConfig sets new rules and reinitializes the game
func (e *GameEngine) SetConfig(config *GameConfig) error {
	if err := ValidateGameConfig(config); err != nil {
		return err
	}

	e.config = config
	e.state = InitGameStateFromConfig(config, e.rng)
	return nil
}

// GetRuns returns the cumulative record of finished runs
func (e *GameEngine) GetRuns() []RunRecord {
	return e.state.Runs
}

// GetLastRun returns the most recently finished run, or nil before the first
// game over
func (e *GameEngine) GetLastRun() *RunRecord {
	if len(e.state.Runs) == 0 {
		return nil
	}
	return &e.state.Runs[len(e.state.Runs)-1]
}

// RestoreHighScore seeds the high score from external storage. Restoring never
// lowers the value already held.
func (e *GameEngine) RestoreHighScore(value int) {
	if value > e.state.HighScore {
		e.state.HighScore = value
	}
}
