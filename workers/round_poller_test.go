package workers

import (
	"testing"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/match"
)

func TestEvaluateActiveLeavesFreshRoundAlone(t *testing.T) {
	registry := match.NewRegistry(match.Collaborators{})
	tpl := &arena.Template{
		Name:            "poll-test",
		Rows:            4,
		Cols:            4,
		ObstacleDensity: 0,
		RoundBudgetSec:  60,
		EntryStake:      1,
		Capacity:        2,
		Eliminations:    [arena.Rounds]int{0, 0, 1},
	}

	m := registry.CreateSeeded(tpl, 7)
	for _, agent := range []string{"a", "b"} {
		if _, err := m.Join(agent, agent); err != nil {
			t.Fatalf("join: %v", err)
		}
	}
	if m.Status() != match.StatusRound1 {
		t.Fatalf("status = %s, want %s", m.Status(), match.StatusRound1)
	}

	poller, err := NewRoundPoller(registry)
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}

	// Nobody has moved and the budget has not elapsed: evaluation is a
	// no-op.
	poller.evaluateActive()
	if m.Status() != match.StatusRound1 {
		t.Fatalf("premature advance to %s", m.Status())
	}
}

func TestPollerStartStop(t *testing.T) {
	registry := match.NewRegistry(match.Collaborators{})

	poller, err := NewRoundPoller(registry)
	if err != nil {
		t.Fatalf("new poller: %v", err)
	}
	if err := poller.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	poller.Stop()
}
