package match

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/engine"
)

// generationRetries bounds re-runs of grid generation for one round start.
// Generation degrades to fewer obstacles rather than failing, so more than
// one retry only ever happens on a broken oracle.
const generationRetries = 5

// Match is one tournament instance bound to one arena template. All exported
// methods serialize on the match's own mutex: at most one operation is in
// flight per match, while distinct matches proceed independently.
type Match struct {
	mu sync.Mutex

	id        string
	template  *arena.Template
	status    Status
	round     int
	prizePool float64
	winnerID  string
	createdAt time.Time
	startedAt time.Time
	endedAt   time.Time

	participants []*Participant // join order, never removed
	byID         map[string]*Participant

	runtime *engine.RoundState
	moveSeq int

	rng  *rand.Rand
	now  func() time.Time
	deps Collaborators
}

func newMatch(tpl *arena.Template, seed int64, deps Collaborators) *Match {
	m := &Match{
		id:        uuid.NewString(),
		template:  tpl,
		status:    StatusWaiting,
		createdAt: time.Now(),
		byID:      make(map[string]*Participant),
		rng:       rand.New(rand.NewSource(seed)),
		now:       time.Now,
		deps:      deps,
	}
	return m
}

// ID returns the match identity.
func (m *Match) ID() string { return m.id }

// Template returns the immutable arena template the match is bound to.
func (m *Match) Template() *arena.Template { return m.template }

// Status returns the current lifecycle state.
func (m *Match) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Snapshot returns a copy of the externally visible match state.
func (m *Match) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		ID:        m.id,
		Template:  m.template.Name,
		Status:    m.status,
		Round:     m.round,
		PrizePool: m.prizePool,
		WinnerID:  m.winnerID,
		CreatedAt: m.createdAt,
		StartedAt: m.startedAt,
		EndedAt:   m.endedAt,
	}
	snap.Participants = make([]Participant, 0, len(m.participants))
	for _, p := range m.participants {
		snap.Participants = append(snap.Participants, *p)
	}
	if m.runtime != nil {
		snap.Grid = m.runtime.Grid
		snap.Positions = m.runtime.Positions()
		snap.RoundStartedAt = m.runtime.StartedAt
		snap.RoundBudget = m.runtime.Budget
	}
	return snap
}

// Join adds an agent to the entrant pool. The entry stake accumulates into
// the prize pool. Reaching template capacity auto-starts round 1.
func (m *Match) Join(agentID, name string) (*Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != StatusWaiting {
		return nil, ErrMatchNotJoinable
	}
	for _, p := range m.participants {
		if p.AgentID == agentID {
			return nil, ErrAlreadyJoined
		}
	}
	if len(m.participants) >= m.template.Capacity {
		return nil, ErrMatchFull
	}
	if m.deps.Entrants != nil {
		if err := m.deps.Entrants.Resolve(agentID); err != nil {
			return nil, fmt.Errorf("entrant registry rejected %s: %w", agentID, err)
		}
	}

	p := &Participant{
		ID:      uuid.NewString(),
		AgentID: agentID,
		Name:    name,
		Rank:    len(m.participants) + 1,
	}
	m.participants = append(m.participants, p)
	m.byID[p.ID] = p
	m.prizePool += m.template.EntryStake

	if len(m.participants) == m.template.Capacity {
		if err := m.startRoundLocked(); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Start is the administrative trigger moving a waiting match into round 1
// before capacity is reached. It requires at least two entrants.
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.Terminal() {
		return ErrMatchTerminal
	}
	if m.status != StatusWaiting {
		return fmt.Errorf("match %s already started", m.id)
	}
	if len(m.participants) < 2 {
		return fmt.Errorf("match %s needs at least 2 entrants to start, has %d", m.id, len(m.participants))
	}
	return m.startRoundLocked()
}

// startRoundLocked advances to the next round: generates a solvable grid,
// seeds every surviving participant at the start cell, and announces the
// round. Generation retries rather than ever starting on an unsolvable grid.
func (m *Match) startRoundLocked() error {
	next := m.round + 1
	target := m.template.ObstacleTarget(next)

	var grid *engine.Grid
	var err error
	for attempt := 0; attempt < generationRetries; attempt++ {
		grid, err = engine.Generate(m.template.Rows, m.template.Cols, target, m.rng)
		if err == nil {
			break
		}
		log.Printf("match %s: round %d grid generation attempt %d failed: %v", m.id, next, attempt+1, err)
	}
	if err != nil {
		return fmt.Errorf("match %s: could not generate round %d grid: %w", m.id, next, err)
	}

	survivors := m.liveParticipantsLocked()
	ids := make([]string, 0, len(survivors))
	for _, p := range survivors {
		ids = append(ids, p.ID)
	}

	now := m.now()
	if m.round == 0 {
		m.startedAt = now
	}
	m.round = next
	m.status = roundStatuses[next]
	m.runtime = engine.NewRoundState(grid, next, m.template.RoundBudget(), ids, now)

	m.publishLocked(EventRoundStart, map[string]any{
		"round":      next,
		"grid":       grid,
		"positions":  m.runtime.Positions(),
		"budget_sec": m.template.RoundBudgetSec,
	})
	return nil
}

// liveParticipantsLocked returns non-eliminated participants in their
// current rank order, which keeps ranking ties deterministic across rounds.
func (m *Match) liveParticipantsLocked() []*Participant {
	live := make([]*Participant, 0, len(m.participants))
	for _, p := range m.participants {
		if !p.Eliminated {
			live = append(live, p)
		}
	}
	for i := 1; i < len(live); i++ {
		for j := i; j > 0 && live[j-1].Rank > live[j].Rank; j-- {
			live[j-1], live[j] = live[j], live[j-1]
		}
	}
	return live
}

// SubmitMove validates and applies one move attempt. Round completion is
// evaluated lazily before and after the move, so a timed-out round resolves
// on the next interaction.
func (m *Match) SubmitMove(participantID string, to engine.Position) (*MoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluateLocked()
	if !m.status.InRound() {
		return nil, ErrNoActiveRound
	}

	p, ok := m.byID[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if p.Eliminated {
		return nil, ErrParticipantEliminated
	}
	if m.runtime.Finished(participantID) {
		return nil, ErrAlreadyFinished
	}

	now := m.now()
	outcome := m.runtime.ApplyMove(participantID, to, now)

	if outcome.Applied {
		m.moveSeq++
		m.recordMoveLocked(MoveEntry{
			MatchID:       m.id,
			ParticipantID: participantID,
			Round:         m.round,
			Sequence:      m.moveSeq,
			From:          outcome.From,
			To:            outcome.To,
			Collision:     outcome.Collision,
			Reason:        outcome.Reason,
			At:            now,
		})
	}

	m.publishLocked(EventMoveResult, map[string]any{
		"participant_id": participantID,
		"outcome":        outcome,
		"round":          m.round,
	})

	result := &MoveResult{
		Outcome: outcome,
		Round:   m.round,
	}
	m.evaluateLocked()
	result.Status = m.status
	result.RoundComplete = m.status.Terminal() || m.round != result.Round
	return result, nil
}

// PathHint returns the oracle's shortest route from the participant's live
// cell to the goal. The first element is the current cell.
func (m *Match) PathHint(participantID string) ([]engine.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.evaluateLocked()
	if !m.status.InRound() {
		return nil, ErrNoActiveRound
	}
	p, ok := m.byID[participantID]
	if !ok {
		return nil, ErrParticipantNotFound
	}
	if p.Eliminated {
		return nil, ErrParticipantEliminated
	}
	if m.runtime.Finished(participantID) {
		return nil, ErrAlreadyFinished
	}

	pos, _ := m.runtime.PositionOf(participantID)
	return engine.FindPath(m.runtime.Grid, pos, m.runtime.Grid.Goal), nil
}

// Evaluate runs the lazy round-completion check. It is the single advance
// implementation shared by move submission and external polling, so a round
// nobody moves in still finalizes once its budget elapses.
func (m *Match) Evaluate() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evaluateLocked()
	return m.snapshotLocked()
}

func (m *Match) evaluateLocked() {
	if !m.status.InRound() || m.runtime == nil {
		return
	}
	if m.runtime.Complete(m.now()) {
		m.finishRoundLocked()
	}
}

// Cancel abandons the match from any non-terminal state. The round runtime
// is discarded and further moves are rejected.
func (m *Match) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status.Terminal() {
		return ErrMatchTerminal
	}
	m.status = StatusCancelled
	m.endedAt = m.now()
	m.runtime = nil
	m.recordResultLocked()
	log.Printf("match %s cancelled", m.id)
	return nil
}

func (m *Match) publishLocked(event string, payload any) {
	if m.deps.Broadcast == nil {
		return
	}
	m.deps.Broadcast.Publish(m.id, event, payload)
}

func (m *Match) recordMoveLocked(entry MoveEntry) {
	if m.deps.Recorder == nil {
		return
	}
	m.deps.Recorder.RecordMove(entry)
}

func (m *Match) recordResultLocked() {
	if m.deps.Recorder == nil {
		return
	}
	var prize float64
	if m.winnerID != "" {
		prize = m.prizePool * WinnerShare
	}
	m.deps.Recorder.RecordResult(Result{
		MatchID:     m.id,
		Template:    m.template.Name,
		Status:      m.status,
		WinnerID:    m.winnerID,
		PrizePool:   m.prizePool,
		WinnerPrize: prize,
		StartedAt:   m.startedAt,
		EndedAt:     m.endedAt,
	})
}
