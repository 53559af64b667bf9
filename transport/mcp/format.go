package mcp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/apexarena/gridrace/game/engine"
	"github.com/apexarena/gridrace/game/match"
	"github.com/apexarena/gridrace/game/service"
)

func formatSnapshot(snap *match.Snapshot) string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Match: %s\nTemplate: %s | Status: %s | Round: %d | Pool: %.2f\n",
		snap.ID, snap.Template, snap.Status, snap.Round, snap.PrizePool))

	if snap.WinnerID != "" {
		result.WriteString(fmt.Sprintf("Winner: %s\n", snap.WinnerID))
	}

	if snap.Grid != nil {
		result.WriteString(fmt.Sprintf("\nRound budget: %s (started %s)\n\n",
			snap.RoundBudget, snap.RoundStartedAt.Format("15:04:05")))
		result.WriteString(formatGrid(snap.Grid, snap.Positions))
	}

	if len(snap.Participants) > 0 {
		result.WriteString("\nStandings:\n")
		parts := make([]match.Participant, len(snap.Participants))
		copy(parts, snap.Participants)
		sort.Slice(parts, func(i, j int) bool { return parts[i].Rank < parts[j].Rank })
		for _, p := range parts {
			line := fmt.Sprintf("%2d. %s (%s) collisions=%d", p.Rank, p.Name, p.AgentID, p.Collisions)
			if p.Eliminated {
				line += fmt.Sprintf(" [eliminated round %d]", p.EliminatedRound)
			}
			result.WriteString(line + "\n")
		}
	}

	return result.String()
}

// formatGrid renders the arena. S and G mark the endpoints, # an obstacle,
// and a digit the number of racers on a cell.
func formatGrid(grid *engine.Grid, positions map[string]engine.Position) string {
	occupancy := make(map[engine.Position]int)
	for _, pos := range positions {
		occupancy[pos]++
	}

	var result strings.Builder
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			pos := engine.Position{Row: row, Col: col}
			switch {
			case occupancy[pos] > 9:
				result.WriteString("+")
			case occupancy[pos] > 0:
				result.WriteString(fmt.Sprintf("%d", occupancy[pos]))
			case pos == grid.Start:
				result.WriteString("S")
			case pos == grid.Goal:
				result.WriteString("G")
			case grid.Cells[row][col] == engine.CellObstacle:
				result.WriteString("#")
			default:
				result.WriteString(".")
			}
		}
		result.WriteString("\n")
	}
	result.WriteString("\nLegend: S start, G goal, # obstacle, digits = racers on a cell\n")
	return result.String()
}

func formatJoinResult(join *service.JoinResult) string {
	result := fmt.Sprintf("Joined match %s as participant %s\nEntrants: %d/%d | Pool: %.2f | Status: %s\n",
		join.MatchID, join.ParticipantID, join.Entrants, join.Capacity, join.PrizePool, join.Status)

	if join.Grid != nil {
		result += "\nThe match is on! Round 1 grid:\n\n"
		positions := map[string]engine.Position{}
		if join.Position != nil {
			positions["you"] = *join.Position
		}
		result += formatGrid(join.Grid, positions)
	} else {
		result += "\nWaiting for more entrants. Poll match_state or watch the WebSocket feed.\n"
	}
	return result
}

func formatMoveResult(result *match.MoveResult) string {
	var response string
	switch {
	case result.Outcome.Finished:
		response = fmt.Sprintf("🏁 Finished! Goal reached in %s\n", result.Outcome.FinishTime)
	case result.Outcome.Collision:
		response = fmt.Sprintf("💥 Collision at (%d,%d): obstacle hit, 5s penalty, you stay at (%d,%d)\n",
			result.Outcome.To.Row, result.Outcome.To.Col, result.Outcome.From.Row, result.Outcome.From.Col)
	case result.Outcome.Moved:
		response = fmt.Sprintf("✓ Moved (%d,%d)→(%d,%d)\n",
			result.Outcome.From.Row, result.Outcome.From.Col, result.Outcome.To.Row, result.Outcome.To.Col)
	default:
		response = fmt.Sprintf("✗ Move rejected (%s), you stay at (%d,%d)\n",
			result.Outcome.Reason, result.Outcome.From.Row, result.Outcome.From.Col)
	}

	response += fmt.Sprintf("Round %d | Match status: %s\n", result.Round, result.Status)
	if result.RoundComplete {
		response += "The round has been settled. Check match_state for the new grid or final result.\n"
	}
	return response
}

func formatHint(hint *service.HintResult) string {
	if hint.Steps <= 0 {
		return "You are already at the goal."
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Shortest route: %d steps\n", hint.Steps))
	for i, pos := range hint.Path {
		if i == 0 {
			result.WriteString(fmt.Sprintf("  now  (%d,%d)\n", pos.Row, pos.Col))
			continue
		}
		result.WriteString(fmt.Sprintf("  %4d (%d,%d)\n", i, pos.Row, pos.Col))
	}
	return result.String()
}
