package service

import (
	"context"
	"fmt"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/engine"
	"github.com/apexarena/gridrace/game/match"
)

// matchServiceImpl implements the MatchService interface on top of the
// match registry and the arena template manager.
type matchServiceImpl struct {
	registry *match.Registry
	arenas   *arena.Manager
}

// NewMatchService creates a new match service instance.
func NewMatchService(registry *match.Registry, arenas *arena.Manager) MatchService {
	return &matchServiceImpl{
		registry: registry,
		arenas:   arenas,
	}
}

// CreateMatch opens a new match on the named template. An empty name uses
// the built-in default template.
func (s *matchServiceImpl) CreateMatch(ctx context.Context, templateName string) (*match.Snapshot, error) {
	tpl, err := s.arenas.Load(templateName)
	if err != nil {
		available, listErr := s.arenas.List()
		if listErr == nil && len(available) > 0 {
			names := make([]string, 0, len(available))
			for _, t := range available {
				names = append(names, t.Name)
			}
			return nil, fmt.Errorf("template %q not available, choose one of %v: %w", templateName, names, err)
		}
		return nil, fmt.Errorf("load template %q: %w", templateName, err)
	}

	m := s.registry.Create(tpl)
	return m.Snapshot(), nil
}

// GetMatch returns the current snapshot of a match, finalizing a timed-out
// round first so readers never observe a round past its budget.
func (s *matchServiceImpl) GetMatch(ctx context.Context, matchID string) (*match.Snapshot, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	return m.Evaluate(), nil
}

// ListMatches returns snapshots for every registered match.
func (s *matchServiceImpl) ListMatches(ctx context.Context) ([]*match.Snapshot, error) {
	return s.registry.List(), nil
}

// StartMatch force-starts a waiting match that has not reached capacity.
func (s *matchServiceImpl) StartMatch(ctx context.Context, matchID string) (*match.Snapshot, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	if err := m.Start(); err != nil {
		return nil, err
	}
	return m.Snapshot(), nil
}

// EvaluateRound finalizes the current round if its budget has elapsed and
// returns the resulting snapshot. Poll-driven collaborators use this to
// advance matches nobody is moving in.
func (s *matchServiceImpl) EvaluateRound(ctx context.Context, matchID string) (*match.Snapshot, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	return m.Evaluate(), nil
}

// CancelMatch abandons a match.
func (s *matchServiceImpl) CancelMatch(ctx context.Context, matchID string) error {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return err
	}
	return m.Cancel()
}

// JoinMatch enters an agent into a match's pool and reports the state the
// join produced, including the round 1 grid when the join filled the match.
func (s *matchServiceImpl) JoinMatch(ctx context.Context, matchID, agentID, name string) (*JoinResult, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}

	p, err := m.Join(agentID, name)
	if err != nil {
		return nil, err
	}

	snap := m.Snapshot()
	result := &JoinResult{
		MatchID:       snap.ID,
		ParticipantID: p.ID,
		AgentID:       p.AgentID,
		Status:        snap.Status,
		PrizePool:     snap.PrizePool,
		Entrants:      len(snap.Participants),
		Capacity:      m.Template().Capacity,
	}
	if snap.Grid != nil {
		result.Grid = snap.Grid
		if pos, ok := snap.Positions[p.ID]; ok {
			result.Position = &pos
		}
	}
	return result, nil
}

// SubmitMove applies one move attempt for a participant.
func (s *matchServiceImpl) SubmitMove(ctx context.Context, matchID, participantID string, to engine.Position) (*match.MoveResult, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	return m.SubmitMove(participantID, to)
}

// PathHint returns the shortest route from the participant's current cell
// to the goal.
func (s *matchServiceImpl) PathHint(ctx context.Context, matchID, participantID string) (*HintResult, error) {
	m, err := s.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	path, err := m.PathHint(participantID)
	if err != nil {
		return nil, err
	}
	return &HintResult{
		Path:  path,
		Steps: len(path) - 1,
	}, nil
}

// ListTemplates summarizes every available arena template.
func (s *matchServiceImpl) ListTemplates(ctx context.Context) ([]*TemplateInfo, error) {
	templates, err := s.arenas.List()
	if err != nil {
		return nil, err
	}
	out := make([]*TemplateInfo, 0, len(templates))
	for _, t := range templates {
		out = append(out, &TemplateInfo{
			Name:           t.Name,
			Description:    t.Description,
			Rows:           t.Rows,
			Cols:           t.Cols,
			Capacity:       t.Capacity,
			EntryStake:     t.EntryStake,
			RoundBudgetSec: t.RoundBudgetSec,
		})
	}
	return out, nil
}
