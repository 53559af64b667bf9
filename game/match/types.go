package match

import (
	"errors"
	"time"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/engine"
)

// Status is a match's lifecycle state.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusRound1    Status = "round_1"
	StatusRound2    Status = "round_2"
	StatusRound3    Status = "round_3"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var roundStatuses = [arena.Rounds + 1]Status{StatusWaiting, StatusRound1, StatusRound2, StatusRound3}

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InRound reports whether the status is one of the three active rounds.
func (s Status) InRound() bool {
	return s == StatusRound1 || s == StatusRound2 || s == StatusRound3
}

const (
	// CollisionPenalty is added to a participant's effective ranking time
	// per obstacle collision. It never mutates the recorded finish instant.
	CollisionPenalty = 5 * time.Second

	// SentinelSlack is added to the round budget to form the sentinel
	// finish time for participants who run out the clock, so they always
	// rank last without an absent-value special case.
	SentinelSlack = time.Hour

	// WinnerShare is the fraction of the prize pool paid to the winner;
	// the remainder is retained by the house.
	WinnerShare = 0.90
)

var (
	ErrMatchNotFound         = errors.New("match not found")
	ErrMatchNotJoinable      = errors.New("match is not accepting entrants")
	ErrMatchFull             = errors.New("match is full")
	ErrAlreadyJoined         = errors.New("agent already joined this match")
	ErrNoActiveRound         = errors.New("match has no active round")
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrParticipantEliminated = errors.New("participant has been eliminated")
	ErrAlreadyFinished       = errors.New("participant already finished this round")
	ErrMatchTerminal         = errors.New("match already reached a terminal state")
)

// Participant is the join between an agent and a match. It is created when
// the agent enters the pool and only ever marked eliminated, never removed.
type Participant struct {
	ID              string                          `json:"id"`
	AgentID         string                          `json:"agent_id"`
	Name            string                          `json:"name"`
	Rank            int                             `json:"rank"`
	Collisions      int                             `json:"collisions"` // cumulative across rounds
	RoundTimes      [arena.Rounds]time.Duration     `json:"round_times"`
	Eliminated      bool                            `json:"eliminated"`
	EliminatedRound int                             `json:"eliminated_round,omitempty"`
	TotalTime       time.Duration                   `json:"total_time,omitempty"`
}

// MoveEntry is one immutable audit-log record for a processed move.
// Rejected attempts (non-adjacent, out of bounds, blocked) are not logged;
// collisions are, even though position does not change.
type MoveEntry struct {
	MatchID       string            `json:"match_id"`
	ParticipantID string            `json:"participant_id"`
	Round         int               `json:"round"`
	Sequence      int               `json:"sequence"`
	From          engine.Position   `json:"from"`
	To            engine.Position   `json:"to"`
	Collision     bool              `json:"collision"`
	Reason        engine.MoveReason `json:"reason"`
	At            time.Time         `json:"at"`
}

// Result is the terminal snapshot handed to the recorder when a match
// completes or is cancelled.
type Result struct {
	MatchID     string    `json:"match_id"`
	Template    string    `json:"template"`
	Status      Status    `json:"status"`
	WinnerID    string    `json:"winner_id,omitempty"`
	PrizePool   float64   `json:"prize_pool"`
	WinnerPrize float64   `json:"winner_prize"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
}

// Broadcast event names emitted over the match's push channel.
const (
	EventRoundStart    = "round_start"
	EventMoveResult    = "move_result"
	EventRoundComplete = "round_complete"
	EventMatchComplete = "match_complete"
)

// EntrantRegistry resolves an agent identity to a participant-eligible
// record. The core only validates existence, it never mutates the registry.
type EntrantRegistry interface {
	Resolve(agentID string) error
}

// Recorder accepts durable records. Implementations are asynchronous and
// best-effort: a failed write must not fail the move that produced it.
type Recorder interface {
	RecordMove(entry MoveEntry)
	RecordRound(matchID string, round int, participants []Participant)
	RecordResult(result Result)
}

// Broadcaster delivers match events to observers, at most once, with no
// delivery guarantee owed by the core.
type Broadcaster interface {
	Publish(matchID, event string, payload any)
}

// Settler receives the computed winner and prize split once per match.
type Settler interface {
	Settle(matchID, winnerID string, prizePool, winnerPrize float64)
}

// Collaborators bundles the optional downstream dependencies of a match.
// Nil fields are skipped; the simulation never blocks on any of them.
type Collaborators struct {
	Entrants   EntrantRegistry
	Recorder   Recorder
	Broadcast  Broadcaster
	Settlement Settler
}

// Snapshot is a read-only copy of a match's externally visible state,
// including the live round view while a round is active.
type Snapshot struct {
	ID           string         `json:"id"`
	Template     string         `json:"template"`
	Status       Status         `json:"status"`
	Round        int            `json:"round"`
	PrizePool    float64        `json:"prize_pool"`
	WinnerID     string         `json:"winner_id,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	StartedAt    time.Time      `json:"started_at,omitempty"`
	EndedAt      time.Time      `json:"ended_at,omitempty"`
	Participants []Participant  `json:"participants"`

	// Live round view, present only while a round is active.
	Grid           *engine.Grid               `json:"grid,omitempty"`
	Positions      map[string]engine.Position `json:"positions,omitempty"`
	RoundStartedAt time.Time                  `json:"round_started_at,omitempty"`
	RoundBudget    time.Duration              `json:"round_budget,omitempty"`
}

// MoveResult is what a move submission returns: the engine outcome plus the
// match context after the move (the round may have completed or the match
// terminated as a consequence).
type MoveResult struct {
	Outcome       engine.MoveOutcome `json:"outcome"`
	Round         int                `json:"round"`
	Status        Status             `json:"status"`
	RoundComplete bool               `json:"round_complete"`
}
