// Command validate provides a small CLI that validates game rule JSON files
// in the ../configs directory. It checks:
//   - JSON structure and required fields
//   - Grid size, tick cadence, scoring, and seed snake bounds
//   - Required message strings and their format placeholders
//   - Ramp feasibility: the advertised floor speed must be attainable with
//     the food a grid of that size can hold
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tamikip/GEMINI-SNAKE/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateConfig loads and validates a single rule configuration JSON file.
// Structural checks reuse the engine's own validation so this tool can never
// disagree with what the server accepts; the ramp analysis is stricter.
func validateConfig(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var config engine.GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	// Ramp feasibility - check the floor speed is actually attainable
	rampResult := analyzeRamp(&config)
	if !rampResult.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, rampResult.Errors...)
	} else {
		result.Errors = append(result.Errors, rampResult.Errors...)
	}

	// Add informational data
	if result.Valid {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", config.GridSize, config.GridSize))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Speed: %dms start, %dms floor", config.InitialSpeedMs, config.MinSpeedMs))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Speed step: %dms per food", config.SpeedStepMs))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Food score: %d", config.FoodScore))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Seed length: %d", config.InitialLength))
	}

	return result
}

// analyzeRamp checks that the configured min_speed_ms can be reached before
// the snake fills the grid. Each food speeds the game up by speed_step_ms, and
// a grid only holds grid*grid - initial_length foods before the board is full,
// so a floor that needs more foods than that is advertising a cadence no run
// can ever hit.
func analyzeRamp(config *engine.GameConfig) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if config.SpeedStepMs == 0 {
		result.Errors = append(result.Errors, "✓ Ramp: flat cadence, speed never changes")
		return result
	}

	rampSpan := config.InitialSpeedMs - config.MinSpeedMs
	foodsToFloor := (rampSpan + config.SpeedStepMs - 1) / config.SpeedStepMs
	maxFoods := config.GridSize*config.GridSize - config.InitialLength

	if foodsToFloor > maxFoods {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Ramp failure: min_speed_ms %d needs %d foods but a %dx%d grid only holds %d", config.MinSpeedMs, foodsToFloor, config.GridSize, config.GridSize, maxFoods))
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Ramp: floor of %dms reached after %d foods", config.MinSpeedMs, foodsToFloor))
	return result
}

// main scans the config directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid. An optional argument overrides the default ../configs directory.
func main() {
	configDir := "../configs"
	if len(os.Args) > 1 {
		configDir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding config files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateConfig(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All rule configurations are valid!")
	} else {
		fmt.Println("❌ Some rule configurations have errors")
		os.Exit(1)
	}
}
