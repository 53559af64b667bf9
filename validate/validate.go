// Command validate checks the arena template JSON files in the ../templates
// directory. It checks:
//   - JSON structure and required fields
//   - Grid dimensions, obstacle density, and round budget ranges
//   - Elimination table consistency (sums to capacity-1, final round culls)
//   - Playability: seeded grids for all three rounds generate solvable
//     courses and the oracle path fits inside the round budget
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/engine"
)

// probeSeeds is how many seeded generation runs each round is checked with.
const probeSeeds = 5

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateTemplate loads and validates a single arena template JSON file.
func validateTemplate(filePath string) ValidationResult {
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

	var tpl arena.Template
	if err := json.Unmarshal(data, &tpl); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := arena.Validate(&tpl); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	playability := validatePlayability(&tpl)
	result.Errors = append(result.Errors, playability.Errors...)
	if !playability.Valid {
		result.Valid = false
		return result
	}

	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", tpl.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Grid: %dx%d", tpl.Rows, tpl.Cols))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Capacity: %d, stake %.2f", tpl.Capacity, tpl.EntryStake))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Eliminations: %v", tpl.Eliminations))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Obstacle targets: %d / %d / %d",
		tpl.ObstacleTarget(1), tpl.ObstacleTarget(2), tpl.ObstacleTarget(3)))

	return result
}

// validatePlayability generates seeded grids for every round and verifies
// the course stays solvable and beatable inside the round budget at one
// move per second.
func validatePlayability(tpl *arena.Template) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	budgetMoves := tpl.RoundBudgetSec
	worstPath := 0

	for round := 1; round <= arena.Rounds; round++ {
		target := tpl.ObstacleTarget(round)
		for seed := int64(0); seed < probeSeeds; seed++ {
			grid, err := engine.Generate(tpl.Rows, tpl.Cols, target, rand.New(rand.NewSource(seed)))
			if err != nil {
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("Round %d seed %d: generation failed: %v", round, seed, err))
				continue
			}

			length := engine.PathLength(grid, grid.Start, grid.Goal)
			if length == engine.NoPath {
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("Round %d seed %d: no path from start to goal", round, seed))
				continue
			}
			if length > worstPath {
				worstPath = length
			}
			if length > budgetMoves {
				result.Valid = false
				result.Errors = append(result.Errors,
					fmt.Sprintf("Round %d seed %d: oracle path needs %d moves but the budget allows %d seconds",
						round, seed, length, budgetMoves))
			}
		}
	}

	if result.Valid {
		result.Errors = append(result.Errors,
			fmt.Sprintf("✓ Playability: %d seeded grids per round solvable, worst oracle path %d moves (budget %ds)",
				probeSeeds, worstPath, budgetMoves))
	}
	return result
}

// main scans ../templates for *.json files and validates each one, printing
// a concise report and exiting with non-zero status if any are invalid.
func main() {
	templateDir := "../templates"
	files, err := filepath.Glob(filepath.Join(templateDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding template files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateTemplate(file)

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
		fmt.Println("✅ All templates are valid!")
	} else {
		fmt.Println("❌ Some templates have errors")
		os.Exit(1)
	}
}
