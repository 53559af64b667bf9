package arena

import (
	"fmt"
	"math"
	"time"

	"github.com/apexarena/gridrace/game/engine"
)

// Rounds is the fixed number of elimination rounds in every match.
const Rounds = 3

// densityMultipliers scale the base obstacle density per round index, so
// later rounds are denser than round 1.
var densityMultipliers = [Rounds + 1]float64{0, 1.0, 1.5, 2.0}

// Template is the immutable configuration a match is bound to. It is created
// by an administrator, never mutated, and referenced by many matches.
type Template struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Rows            int     `json:"rows"`
	Cols            int     `json:"cols"`
	ObstacleDensity float64 `json:"obstacle_density"` // base fraction of cells, round 1
	RoundBudgetSec  int     `json:"round_budget_sec"`
	EntryStake      float64 `json:"entry_stake"`
	Capacity        int     `json:"capacity"`
	// Eliminations is the static per-round elimination table keyed by round
	// number (index 0 = round 1). It must sum to Capacity-1 so round 3
	// leaves exactly one survivor.
	Eliminations [Rounds]int `json:"eliminations"`
}

// Validate checks a template for correctness and playability.
func Validate(t *Template) error {
	if t == nil {
		return fmt.Errorf("template validation: template is nil")
	}
	if t.Name == "" {
		return fmt.Errorf("template validation: name is required")
	}
	if t.Rows < engine.MinGridDim || t.Rows > engine.MaxGridDim ||
		t.Cols < engine.MinGridDim || t.Cols > engine.MaxGridDim {
		return fmt.Errorf("template validation: grid %dx%d outside [%d,%d]",
			t.Rows, t.Cols, engine.MinGridDim, engine.MaxGridDim)
	}
	if t.ObstacleDensity < 0 || t.ObstacleDensity >= 1 {
		return fmt.Errorf("template validation: obstacle_density %.2f outside [0,1)", t.ObstacleDensity)
	}
	if t.RoundBudgetSec <= 0 {
		return fmt.Errorf("template validation: round_budget_sec must be positive, got %d", t.RoundBudgetSec)
	}
	if t.EntryStake < 0 {
		return fmt.Errorf("template validation: entry_stake must be non-negative, got %.2f", t.EntryStake)
	}
	if t.Capacity < 2 {
		return fmt.Errorf("template validation: capacity must be at least 2, got %d", t.Capacity)
	}
	total := 0
	for round, count := range t.Eliminations {
		if count < 0 {
			return fmt.Errorf("template validation: round %d elimination count is negative", round+1)
		}
		total += count
	}
	if total != t.Capacity-1 {
		return fmt.Errorf("template validation: eliminations sum to %d, want capacity-1 = %d", total, t.Capacity-1)
	}
	if t.Eliminations[Rounds-1] < 1 {
		return fmt.Errorf("template validation: round %d must eliminate at least one participant", Rounds)
	}
	return nil
}

// RoundBudget returns the wall-clock time budget of one round.
func (t *Template) RoundBudget() time.Duration {
	return time.Duration(t.RoundBudgetSec) * time.Second
}

// ObstacleTarget returns the obstacle count requested from the generator for
// the given round, scaling the base density by the round's multiplier.
func (t *Template) ObstacleTarget(round int) int {
	if round < 1 || round > Rounds {
		return 0
	}
	cells := float64(t.Rows * t.Cols)
	return int(math.Round(cells * t.ObstacleDensity * densityMultipliers[round]))
}

// EliminationCount returns the number of lowest-ranked participants removed
// at the end of the given round.
func (t *Template) EliminationCount(round int) int {
	if round < 1 || round > Rounds {
		return 0
	}
	return t.Eliminations[round-1]
}

// DefaultTemplate returns the built-in 10-entrant arena used when no
// template directory is configured.
func DefaultTemplate() *Template {
	return &Template{
		Name:            "default",
		Description:     "Standard 8x8 arena, ten entrants, three rounds",
		Rows:            8,
		Cols:            8,
		ObstacleDensity: 0.15,
		RoundBudgetSec:  120,
		EntryStake:      10,
		Capacity:        10,
		Eliminations:    [Rounds]int{2, 4, 3},
	}
}
