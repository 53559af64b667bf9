package engine

import "time"

// MoveReason classifies the outcome of a single resolved move attempt.
type MoveReason string

const (
	// MoveAdvance: the participant moved onto a free walkable cell.
	MoveAdvance MoveReason = "advance"
	// MoveFinish: the participant moved onto the goal cell; finish recorded.
	MoveFinish MoveReason = "finish"
	// MoveCollision: destination is an obstacle. The participant stays put,
	// the collision counter increments, and the attempt still counts as a
	// processed move for the audit log.
	MoveCollision MoveReason = "collision"
	// MoveInvalid: destination is not one cardinal step away. Rejected.
	MoveInvalid MoveReason = "invalid_move"
	// MoveOutOfBounds: destination lies outside the grid. Rejected.
	MoveOutOfBounds MoveReason = "out_of_bounds"
	// MoveBlocked: destination is occupied by another unfinished
	// participant. Rejected, distinct from a collision, no penalty.
	MoveBlocked MoveReason = "blocked_by_agent"
)

// MoveOutcome is the result of pushing one move attempt through the
// resolution pipeline. Applied is true for advances and collisions (both are
// processed moves); rejections leave the round state untouched.
type MoveOutcome struct {
	Reason     MoveReason    `json:"reason"`
	Applied    bool          `json:"applied"`
	Moved      bool          `json:"moved"`
	Collision  bool          `json:"collision"`
	Finished   bool          `json:"finished"`
	From       Position      `json:"from"`
	To         Position      `json:"to"`
	FinishTime time.Duration `json:"finish_time,omitempty"`
}

// RoundState is the transient authority for one round of one match: the
// generated grid, every live participant's current cell, per-participant
// move/collision counters, and finish instants. It is created when a round
// starts and discarded when the round ends. Callers serialize access; the
// state itself is not goroutine safe.
type RoundState struct {
	Grid      *Grid
	Round     int
	StartedAt time.Time
	Budget    time.Duration

	positions  map[string]Position
	moveCounts map[string]int
	collisions map[string]int
	finishes   map[string]time.Duration
}

// NewRoundState seeds every participant at the grid's start cell.
func NewRoundState(grid *Grid, round int, budget time.Duration, participantIDs []string, startedAt time.Time) *RoundState {
	rs := &RoundState{
		Grid:       grid,
		Round:      round,
		StartedAt:  startedAt,
		Budget:     budget,
		positions:  make(map[string]Position, len(participantIDs)),
		moveCounts: make(map[string]int, len(participantIDs)),
		collisions: make(map[string]int, len(participantIDs)),
		finishes:   make(map[string]time.Duration),
	}
	for _, id := range participantIDs {
		rs.positions[id] = grid.Start
	}
	return rs
}

// Live reports whether the participant is present in this round.
func (rs *RoundState) Live(id string) bool {
	_, ok := rs.positions[id]
	return ok
}

// PositionOf returns the participant's current cell.
func (rs *RoundState) PositionOf(id string) (Position, bool) {
	p, ok := rs.positions[id]
	return p, ok
}

// Positions returns a copy of the live position map.
func (rs *RoundState) Positions() map[string]Position {
	out := make(map[string]Position, len(rs.positions))
	for id, p := range rs.positions {
		out[id] = p
	}
	return out
}

// Finished reports whether the participant has a recorded finish this round.
func (rs *RoundState) Finished(id string) bool {
	_, ok := rs.finishes[id]
	return ok
}

// FinishTime returns the participant's recorded finish instant, if any.
func (rs *RoundState) FinishTime(id string) (time.Duration, bool) {
	d, ok := rs.finishes[id]
	return d, ok
}

// Collisions returns the participant's collision count for this round.
func (rs *RoundState) Collisions(id string) int {
	return rs.collisions[id]
}

// MoveCount returns the number of committed advances for the participant.
func (rs *RoundState) MoveCount(id string) int {
	return rs.moveCounts[id]
}

// ApplyMove resolves a move attempt for a live, unfinished participant.
// Checks run in order: adjacency, bounds, obstacle, agent-block, advance.
// Finished participants never block a destination cell, so the goal cell
// cannot be trapped by earlier finishers.
func (rs *RoundState) ApplyMove(id string, to Position, now time.Time) MoveOutcome {
	from, ok := rs.positions[id]
	if !ok {
		return MoveOutcome{Reason: MoveInvalid, To: to}
	}
	outcome := MoveOutcome{From: from, To: to}

	if !IsAdjacentMove(from, to) {
		outcome.Reason = MoveInvalid
		return outcome
	}
	if !rs.Grid.InBounds(to) {
		outcome.Reason = MoveOutOfBounds
		return outcome
	}
	if rs.Grid.Cells[to.Row][to.Col] == CellObstacle {
		rs.collisions[id]++
		outcome.Reason = MoveCollision
		outcome.Applied = true
		outcome.Collision = true
		return outcome
	}
	for other, pos := range rs.positions {
		if other != id && pos == to && !rs.Finished(other) {
			outcome.Reason = MoveBlocked
			return outcome
		}
	}

	rs.positions[id] = to
	rs.moveCounts[id]++
	outcome.Applied = true
	outcome.Moved = true
	outcome.Reason = MoveAdvance
	if to == rs.Grid.Goal {
		elapsed := now.Sub(rs.StartedAt)
		rs.finishes[id] = elapsed
		outcome.Reason = MoveFinish
		outcome.Finished = true
		outcome.FinishTime = elapsed
	}
	return outcome
}

// Elapsed returns wall-clock time since the round started.
func (rs *RoundState) Elapsed(now time.Time) time.Duration {
	return now.Sub(rs.StartedAt)
}

// TimedOut reports whether the round's time budget has elapsed.
func (rs *RoundState) TimedOut(now time.Time) bool {
	return rs.Elapsed(now) >= rs.Budget
}

// Complete reports round completion: every participant finished, or the
// time budget elapsed.
func (rs *RoundState) Complete(now time.Time) bool {
	if rs.TimedOut(now) {
		return true
	}
	for id := range rs.positions {
		if !rs.Finished(id) {
			return false
		}
	}
	return true
}

// FinalizeTimeouts assigns the sentinel finish time to every participant
// without a recorded finish, so ranking needs no absent-value special case.
// Already-recorded finish instants are never overwritten.
func (rs *RoundState) FinalizeTimeouts(sentinel time.Duration) {
	for id := range rs.positions {
		if !rs.Finished(id) {
			rs.finishes[id] = sentinel
		}
	}
}

// EffectiveTimes returns each participant's ranking time: the recorded
// finish instant plus collision count × penalty. The literal finish instant
// is never mutated by penalties.
func (rs *RoundState) EffectiveTimes(penalty time.Duration) map[string]time.Duration {
	out := make(map[string]time.Duration, len(rs.positions))
	for id := range rs.positions {
		out[id] = rs.finishes[id] + time.Duration(rs.collisions[id])*penalty
	}
	return out
}
