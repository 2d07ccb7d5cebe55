// Command analyze prints quick, human-readable heuristics about the rule
// configuration files in the project's configs directory. It summarizes grid
// capacity, tick cadence, and scoring, and flags speed ramps that end almost
// immediately or can never reach their advertised floor.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
)

func main() {
	configDir := "configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No config files found in %s\n", configDir)
		return
	}

	for _, file := range files {
		fmt.Printf("\n=== Analyzing %s ===\n", filepath.Base(file))
		analyzeConfig(file)
	}
}

func analyzeConfig(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Printf("Error reading file: %v\n", err)
		return
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		fmt.Printf("Error parsing JSON: %v\n", err)
		return
	}

	freeCells := config.GridSize*config.GridSize - config.InitialLength

	fmt.Printf("Name: %s\n", config.Name)
	fmt.Printf("Grid: %d x %d (%d free cells at start)\n", config.GridSize, config.GridSize, freeCells)
	fmt.Printf("Cadence: %dms start, %dms floor\n", config.InitialSpeedMs, config.MinSpeedMs)
	fmt.Printf("Scoring: %d per food, max attainable %d\n", config.FoodScore, maxScore(&config))
	fmt.Printf("Pace at floor: %s\n", paceLabel(config.MinSpeedMs))
	fmt.Printf("Board crossing: %dms at start, %dms at floor\n",
		crossTimeMs(config.GridSize, config.InitialSpeedMs),
		crossTimeMs(config.GridSize, config.MinSpeedMs))

	foods := foodsToFloor(&config)
	switch {
	case config.SpeedStepMs == 0:
		fmt.Printf("Ramp: flat cadence, the game never speeds up\n")
	case foods > freeCells:
		fmt.Printf("⚠️  WARNING: the %dms floor needs %d foods but the grid only holds %d!\n", config.MinSpeedMs, foods, freeCells)
	case foods <= 3:
		fmt.Printf("⚠️  WARNING: ramp tops out after only %d foods, most of the run is at full speed\n", foods)
	default:
		fmt.Printf("✅ Ramp spans %d foods (score %d) before hitting the floor\n", foods, foods*config.FoodScore)
	}
}

// foodsToFloor returns how many foods it takes to drive the cadence from the
// starting interval down to the floor. A zero step means the start is the
// floor.
func foodsToFloor(config *engine.GameConfig) int {
	if config.SpeedStepMs <= 0 {
		return 0
	}
	span := config.InitialSpeedMs - config.MinSpeedMs
	return (span + config.SpeedStepMs - 1) / config.SpeedStepMs
}

// maxScore returns the score of a board-filling run
func maxScore(config *engine.GameConfig) int {
	return (config.GridSize*config.GridSize - config.InitialLength) * config.FoodScore
}

// crossTimeMs returns how long the snake takes to cross the full board edge
// to edge at the given tick interval
func crossTimeMs(gridSize, speedMs int) int {
	return gridSize * speedMs
}

// paceLabel buckets a tick interval into a rough difficulty feel
func paceLabel(speedMs int) string {
	switch {
	case speedMs >= 150:
		return "relaxed"
	case speedMs >= 100:
		return "moderate"
	case speedMs >= 50:
		return "fast"
	default:
		return "frantic"
	}
}
