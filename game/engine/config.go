package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// ValidateGameConfig validates a rules configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	// Validate required fields
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	// Validate grid size
	if config.GridSize < MinGridSize || config.GridSize > MaxGridSize {
		return fmt.Errorf("config validation: grid_size must be between %d and %d, got %d", MinGridSize, MaxGridSize, config.GridSize)
	}

	// Validate tick cadence settings
	if config.InitialSpeedMs < MinTickIntervalMs || config.InitialSpeedMs > MaxTickIntervalMs {
		return fmt.Errorf("config validation: initial_speed_ms must be between %d and %d, got %d",
			MinTickIntervalMs, MaxTickIntervalMs, config.InitialSpeedMs)
	}
	if config.MinSpeedMs < MinTickIntervalMs || config.MinSpeedMs > config.InitialSpeedMs {
		return fmt.Errorf("config validation: min_speed_ms must be between %d and initial_speed_ms (%d), got %d",
			MinTickIntervalMs, config.InitialSpeedMs, config.MinSpeedMs)
	}
	if config.SpeedStepMs < 0 {
		return fmt.Errorf("config validation: speed_step_ms must not be negative, got %d", config.SpeedStepMs)
	}

	// Validate scoring
	if config.FoodScore <= 0 {
		return fmt.Errorf("config validation: food_score must be positive, got %d", config.FoodScore)
	}

	// Validate the seed snake. It grows downward from the grid center, so the
	// whole column below the center must fit.
	if config.InitialLength < 1 {
		return fmt.Errorf("config validation: initial_length must be at least 1, got %d", config.InitialLength)
	}
	if config.GridSize/2+config.InitialLength-1 >= config.GridSize {
		return fmt.Errorf("config validation: initial_length %d does not fit below the center of a %d grid",
			config.InitialLength, config.GridSize)
	}

	// Validate messages
	if config.Messages.Welcome == "" {
		return fmt.Errorf("config validation: messages.welcome is required")
	}
	if config.Messages.Started == "" {
		return fmt.Errorf("config validation: messages.started is required")
	}
	if config.Messages.Paused == "" {
		return fmt.Errorf("config validation: messages.paused is required")
	}
	if config.Messages.Resumed == "" {
		return fmt.Errorf("config validation: messages.resumed is required")
	}

	// Validate format strings
	if !strings.Contains(config.Messages.FoodEaten, "%d") {
		return fmt.Errorf("config validation: messages.food_eaten must contain %%d for score")
	}
	if !strings.Contains(config.Messages.NewHighScore, "%d") {
		return fmt.Errorf("config validation: messages.new_high_score must contain %%d for high score")
	}
	if !strings.Contains(config.Messages.GameOverWall, "%d") {
		return fmt.Errorf("config validation: messages.game_over_wall must contain %%d for final score")
	}
	if !strings.Contains(config.Messages.GameOverSelf, "%d") {
		return fmt.Errorf("config validation: messages.game_over_self must contain %%d for final score")
	}

	return nil
}

// LoadGameConfig loads and validates a rules configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultGameConfig returns the classic rules: 20x20 grid, 200ms start
// cadence ramping to an 80ms floor, 10 points per food, 3 segment seed.
func DefaultGameConfig() *GameConfig {
	config := &GameConfig{
		Name:           "Classic",
		Description:    "Classic snake on a 20x20 grid. Eat to grow, speed ramps as you score.",
		GridSize:       DefaultGridSize,
		InitialSpeedMs: DefaultInitialSpeedMs,
		MinSpeedMs:     DefaultMinSpeedMs,
		SpeedStepMs:    DefaultSpeedStepMs,
		FoodScore:      DefaultFoodScore,
		InitialLength:  DefaultInitialLength,
	}
	config.Messages.Welcome = "Welcome! Press a direction to start slithering."
	config.Messages.Started = "Go! Eat the food, dodge the walls and yourself."
	config.Messages.Paused = "Paused. Toggle pause to keep going."
	config.Messages.Resumed = "Back in the game!"
	config.Messages.FoodEaten = "Nom! Score: %d"
	config.Messages.NewHighScore = "New high score: %d!"
	config.Messages.GameOverWall = "You hit the wall! Final score: %d"
	config.Messages.GameOverSelf = "You bit yourself! Final score: %d"
	return config
}

// InitGameStateFromConfig creates a fresh idle game state using the provided
// configuration. The seed snake is a vertical column growing downward from
// the grid center with the heading pointing up, so the first tick moves away
// from the body. Food spawns on a random free cell via rng.
func InitGameStateFromConfig(config *GameConfig, rng *rand.Rand) *GameState {
	if config == nil {
		config = DefaultGameConfig()
	}

	cx, cy := config.GridSize/2, config.GridSize/2
	snake := make([]Point, config.InitialLength)
	for i := range snake {
		snake[i] = Point{X: cx, Y: cy + i}
	}

	return &GameState{
		Snake:       snake,
		Food:        RandomFreeCell(rng, config.GridSize, snake),
		Direction:   DirUp,
		LastApplied: DirUp,
		Status:      StatusIdle,
		Score:       0,
		HighScore:   0,
		Speed:       config.InitialSpeedMs,
		GridSize:    config.GridSize,
		Ticks:       0,
		Message:     config.Messages.Welcome,
		ConfigName:  config.Name,
		Runs:        []RunRecord{},
		TotalGames:  0,
	}
}
