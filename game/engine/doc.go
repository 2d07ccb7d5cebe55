// Package engine provides the core game logic for the snake arcade game.
//
// The engine package implements the deterministic tick mechanics including:
//   - Grid geometry and random food placement
//   - Direction buffering with reversal rejection
//   - The Idle/Playing/Paused/GameOver state machine
//   - Per-tick movement, wall and self collision, growth on food
//   - Score accumulation, speed ramp with a floor, high score tracking
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameState represents the current game state,
// while GameConfig defines the rules loaded from JSON files. Snapshot is the
// read-only projection handed across the render boundary.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine.HandleStart()
//	gameEngine.HandleDirectionRequest(engine.DirLeft)
//	state := gameEngine.Advance()
//
// Game Rules:
//
// The snake advances one cell per tick along the buffered heading. Eating
// food grows the snake by one segment, awards points and shortens the tick
// interval down to a configured floor. Hitting a wall or the snake's own body
// ends the run. Reversal requests are judged against the heading applied on
// the previous tick, so only turns of ninety degrees take effect.
//
// The engine is pure with respect to time: it never schedules anything.
// Callers drive Advance on their own cadence (see the loop package) and read
// Speed for the interval to the next tick.
package engine
