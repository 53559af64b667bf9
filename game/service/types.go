package service

import (
	"github.com/apexarena/gridrace/game/engine"
	"github.com/apexarena/gridrace/game/match"
)

// JoinResult is returned when an agent enters a match. The match may have
// auto-started as a consequence of this join, so the fresh status and prize
// pool are included.
type JoinResult struct {
	MatchID       string            `json:"match_id"`
	ParticipantID string            `json:"participant_id"`
	AgentID       string            `json:"agent_id"`
	Status        match.Status      `json:"status"`
	PrizePool     float64           `json:"prize_pool"`
	Entrants      int               `json:"entrants"`
	Capacity      int               `json:"capacity"`
	Grid          *engine.Grid      `json:"grid,omitempty"`
	Position      *engine.Position  `json:"position,omitempty"`
}

// HintResult is the oracle path from a participant's live cell to the goal.
type HintResult struct {
	Path  []engine.Position `json:"path"`
	Steps int               `json:"steps"`
}

// TemplateInfo summarizes one arena template for listings.
type TemplateInfo struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
	Capacity       int     `json:"capacity"`
	EntryStake     float64 `json:"entry_stake"`
	RoundBudgetSec int     `json:"round_budget_sec"`
}
