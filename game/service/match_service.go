package service

import (
	"context"

	"github.com/apexarena/gridrace/game/engine"
	"github.com/apexarena/gridrace/game/match"
)

// MatchService defines all match-related operations exposed to transports.
type MatchService interface {
	// Match lifecycle
	CreateMatch(ctx context.Context, templateName string) (*match.Snapshot, error)
	GetMatch(ctx context.Context, matchID string) (*match.Snapshot, error)
	ListMatches(ctx context.Context) ([]*match.Snapshot, error)
	StartMatch(ctx context.Context, matchID string) (*match.Snapshot, error)
	EvaluateRound(ctx context.Context, matchID string) (*match.Snapshot, error)
	CancelMatch(ctx context.Context, matchID string) error

	// Participation
	JoinMatch(ctx context.Context, matchID, agentID, name string) (*JoinResult, error)
	SubmitMove(ctx context.Context, matchID, participantID string, to engine.Position) (*match.MoveResult, error)
	PathHint(ctx context.Context, matchID, participantID string) (*HintResult, error)

	// Templates
	ListTemplates(ctx context.Context) ([]*TemplateInfo, error)
}
