package engine

import (
	"math/rand"
	"reflect"
	"testing"
)

func createTestConfig() *GameConfig {
	config := DefaultGameConfig()
	config.Name = "Engine Test Config"
	config.Description = "Configuration for engine tests"
	config.GridSize = 10
	config.InitialSpeedMs = 100
	config.MinSpeedMs = 60
	config.SpeedStepMs = 20
	config.FoodScore = 10
	config.InitialLength = 3
	return config
}

func TestNewEngine(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngine(config)
	if err != nil {
		t.Fatalf("Failed to create new engine: %v", err)
	}

	if eng == nil {
		t.Fatal("Expected engine to be non-nil")
	}
	if eng.GetStatus() != StatusIdle {
		t.Errorf("Expected initial status idle, got %s", eng.GetStatus())
	}
	if eng.GetScore() != 0 {
		t.Errorf("Expected initial score 0, got %d", eng.GetScore())
	}
	if eng.GetSpeed() != config.InitialSpeedMs {
		t.Errorf("Expected initial speed %d, got %d", config.InitialSpeedMs, eng.GetSpeed())
	}
	if eng.IsPlaying() {
		t.Error("Expected engine not to be playing initially")
	}
}

func TestNewEngine_InvalidConfig(t *testing.T) {
	config := createTestConfig()
	config.Name = "" // Make config invalid

	if _, err := NewEngine(config); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestNewEngineWithDefaults(t *testing.T) {
	eng := NewEngineWithDefaults()
	if eng == nil {
		t.Fatal("Expected engine to be non-nil")
	}

	if eng.GetConfig().GridSize != DefaultGridSize {
		t.Errorf("Expected default grid size %d, got %d", DefaultGridSize, eng.GetConfig().GridSize)
	}
	if eng.GetScore() != 0 {
		t.Errorf("Expected initial score 0, got %d", eng.GetScore())
	}
}

func TestNewEngineWithSeed_Deterministic(t *testing.T) {
	config := createTestConfig()

	a, err := NewEngineWithSeed(config, 77)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	b, err := NewEngineWithSeed(config, 77)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Identical seeds and identical inputs must produce identical runs
	script := []Direction{DirLeft, DirLeft, DirDown, DirRight, DirDown}
	a.HandleStart()
	b.HandleStart()
	for _, d := range script {
		a.HandleDirectionRequest(d)
		b.HandleDirectionRequest(d)
		a.Advance()
		b.Advance()
	}

	sa, sb := a.GetSnapshot(), b.GetSnapshot()
	sa.RunID, sb.RunID = "", "" // run ids are random by design
	if !reflect.DeepEqual(sa, sb) {
		t.Errorf("Same seed produced different states:\n%+v\n%+v", sa, sb)
	}
}

func TestHandleStart(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := eng.HandleStart()

	if state.Status != StatusPlaying {
		t.Errorf("Expected status playing, got %s", state.Status)
	}
	if state.RunID == "" {
		t.Error("Expected a fresh run id")
	}
	if state.Message != config.Messages.Started {
		t.Errorf("Expected started message, got %q", state.Message)
	}
	if len(state.Snake) != config.InitialLength {
		t.Errorf("Expected seed snake length %d, got %d", config.InitialLength, len(state.Snake))
	}
}

func TestHandleStart_FullResetPreservesCarryOvers(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	eng.HandleStart()
	firstRunID := eng.GetState().RunID

	// Eat once, then crash into the wall
	state := eng.GetState()
	state.Snake = []Point{{5, 5}, {5, 6}, {5, 7}}
	state.Food = Point{X: 5, Y: 4}
	eng.Advance()
	if eng.GetScore() != config.FoodScore {
		t.Fatalf("Expected score %d after eating, got %d", config.FoodScore, eng.GetScore())
	}

	state.Snake = []Point{{0, 5}, {1, 5}, {2, 5}}
	state.Direction = DirLeft
	state.LastApplied = DirLeft
	eng.Advance()
	if eng.GetStatus() != StatusGameOver {
		t.Fatalf("Expected game over, got %s", eng.GetStatus())
	}

	state = eng.HandleStart()

	if state.Status != StatusPlaying {
		t.Errorf("Expected status playing after restart, got %s", state.Status)
	}
	if state.Score != 0 {
		t.Errorf("Expected score reset to 0, got %d", state.Score)
	}
	if state.Speed != config.InitialSpeedMs {
		t.Errorf("Expected speed reset to %d, got %d", config.InitialSpeedMs, state.Speed)
	}
	if state.HighScore != config.FoodScore {
		t.Errorf("Expected high score %d to survive the reset, got %d", config.FoodScore, state.HighScore)
	}
	if len(state.Runs) != 1 || state.TotalGames != 1 {
		t.Errorf("Expected run ledger to survive the reset, got %d runs / %d games", len(state.Runs), state.TotalGames)
	}
	if state.RunID == firstRunID {
		t.Error("Expected a fresh run id after restart")
	}
	if state.Cause != "" {
		t.Errorf("Expected cause cleared, got %s", state.Cause)
	}
}

func TestHandleDirectionRequest_Buffering(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.HandleStart()

	state := eng.HandleDirectionRequest(DirLeft)
	if state.Direction != DirLeft {
		t.Errorf("Expected buffered direction left, got %s", state.Direction)
	}
	// The applied heading only changes when a tick runs
	if state.LastApplied != DirUp {
		t.Errorf("Expected last applied still up, got %s", state.LastApplied)
	}
}

func TestHandleDirectionRequest_ReversalRejected(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.HandleStart()

	state := eng.HandleDirectionRequest(DirDown)
	if state.Direction != DirUp {
		t.Errorf("Expected reversal to be dropped, buffer moved to %s", state.Direction)
	}

	// Legality is judged against the applied heading, not the buffer: with
	// left buffered but up still applied, down stays illegal and the buffer
	// keeps the accepted left turn.
	eng.HandleDirectionRequest(DirLeft)
	state = eng.HandleDirectionRequest(DirDown)
	if state.Direction != DirLeft {
		t.Errorf("Expected buffer to keep left, got %s", state.Direction)
	}
}

func TestHandleDirectionRequest_Idempotent(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.HandleStart()

	once := eng.HandleDirectionRequest(DirRight).Direction
	twice := eng.HandleDirectionRequest(DirRight).Direction
	if once != twice || twice != DirRight {
		t.Errorf("Expected repeated request to be idempotent, got %s then %s", once, twice)
	}
}

func TestHandleDirectionRequest_AutoStartFromIdle(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	state := eng.HandleDirectionRequest(DirLeft)

	if state.Status != StatusPlaying {
		t.Errorf("Expected directional input to auto-start, got %s", state.Status)
	}
	if state.Direction != DirLeft {
		t.Errorf("Expected buffered direction left, got %s", state.Direction)
	}
}

func TestHandleDirectionRequest_AutoStartDropsReversal(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// Down opposes the seed heading: the run starts, the turn is dropped
	state := eng.HandleDirectionRequest(DirDown)

	if state.Status != StatusPlaying {
		t.Errorf("Expected auto-start, got %s", state.Status)
	}
	if state.Direction != DirUp {
		t.Errorf("Expected seed heading kept, got %s", state.Direction)
	}
}

func TestHandleDirectionRequest_IgnoredWhenPausedOrOver(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.HandleStart()
	eng.HandlePauseToggle()

	state := eng.HandleDirectionRequest(DirLeft)
	if state.Direction != DirUp {
		t.Errorf("Expected steering ignored while paused, buffer moved to %s", state.Direction)
	}
	if state.Status != StatusPaused {
		t.Errorf("Expected status to stay paused, got %s", state.Status)
	}

	state.Status = StatusGameOver
	state = eng.HandleDirectionRequest(DirLeft)
	if state.Direction != DirUp {
		t.Errorf("Expected steering ignored after game over, buffer moved to %s", state.Direction)
	}
	if state.Status != StatusGameOver {
		t.Errorf("Expected status to stay game over, got %s", state.Status)
	}
}

func TestHandlePauseToggle(t *testing.T) {
	config := createTestConfig()
	eng, err := NewEngineWithSeed(config, 5)
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}

	// No effect in idle
	if state := eng.HandlePauseToggle(); state.Status != StatusIdle {
		t.Errorf("Expected pause toggle to be a no-op in idle, got %s", state.Status)
	}

	eng.HandleStart()
	if state := eng.HandlePauseToggle(); state.Status != StatusPaused {
		t.Errorf("Expected paused, got %s", state.Status)
	}
	if state := eng.HandlePauseToggle(); state.Status != StatusPlaying {
		t.Errorf("Expected resumed to playing, got %s", state.Status)
	}

	// No effect after game over
	eng.GetState().Status = StatusGameOver
	if state := eng.HandlePauseToggle(); state.Status != StatusGameOver {
		t.Errorf("Expected pause toggle to be a no-op after game over, got %s", state.Status)
	}
}

func TestRestoreHighScore(t *testing.T) {
	eng := NewEngineWithDefaults()

	eng.RestoreHighScore(50)
	if eng.GetHighScore() != 50 {
		t.Errorf("Expected high score 50, got %d", eng.GetHighScore())
	}

	// Restoring never lowers the held value
	eng.RestoreHighScore(30)
	if eng.GetHighScore() != 50 {
		t.Errorf("Expected high score to stay 50, got %d", eng.GetHighScore())
	}
}

func TestSetConfig(t *testing.T) {
	eng := NewEngineWithDefaults()

	config := createTestConfig()
	config.GridSize = 12
	if err := eng.SetConfig(config); err != nil {
		t.Fatalf("Failed to set config: %v", err)
	}
	if eng.GetState().GridSize != 12 {
		t.Errorf("Expected grid size 12 after config change, got %d", eng.GetState().GridSize)
	}

	bad := createTestConfig()
	bad.GridSize = 1
	if err := eng.SetConfig(bad); err == nil {
		t.Error("Expected error for invalid config")
	}
}

func TestSetState(t *testing.T) {
	eng := NewEngineWithDefaults()

	if err := eng.SetState(nil); err == nil {
		t.Error("Expected error for nil state")
	}

	restored := InitGameStateFromConfig(eng.GetConfig(), rand.New(rand.NewSource(1)))
	restored.Score = 40
	if err := eng.SetState(restored); err != nil {
		t.Fatalf("Failed to set state: %v", err)
	}
	if eng.GetScore() != 40 {
		t.Errorf("Expected restored score 40, got %d", eng.GetScore())
	}
}

func TestSnapshot_ReadOnlyCopy(t *testing.T) {
	eng := NewEngineWithDefaults()
	eng.HandleStart()

	snap := eng.GetSnapshot()
	if len(snap.Snake) != len(eng.GetState().Snake) {
		t.Fatalf("Expected snapshot snake length %d, got %d", len(eng.GetState().Snake), len(snap.Snake))
	}

	// Mutating the snapshot must not reach engine state
	snap.Snake[0] = Point{X: -99, Y: -99}
	if eng.GetState().Snake[0] == (Point{X: -99, Y: -99}) {
		t.Error("Snapshot mutation leaked into engine state")
	}

	if snap.Status != StatusPlaying {
		t.Errorf("Expected snapshot status playing, got %s", snap.Status)
	}
	if snap.GridSize != eng.GetConfig().GridSize {
		t.Errorf("Expected snapshot grid size %d, got %d", eng.GetConfig().GridSize, snap.GridSize)
	}
}
