package match

import (
	"errors"
	"testing"
	"time"

	"github.com/apexarena/gridrace/game/arena"
	"github.com/apexarena/gridrace/game/engine"
)

func TestRegistryCreateAndGet(t *testing.T) {
	r := NewRegistry(Collaborators{})
	m := r.Create(arena.DefaultTemplate())

	got, err := r.Get(m.ID())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != m {
		t.Fatal("get returned a different match handle")
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("missing match: err = %v, want ErrMatchNotFound", err)
	}
}

func TestRegistrySeededMatchesReproduceGrids(t *testing.T) {
	tpl := &arena.Template{
		Name:            "seeded",
		Rows:            8,
		Cols:            8,
		ObstacleDensity: 0.2,
		RoundBudgetSec:  60,
		EntryStake:      1,
		Capacity:        2,
		Eliminations:    [arena.Rounds]int{0, 0, 1},
	}

	grids := make([]*engine.Grid, 0, 2)
	for i := 0; i < 2; i++ {
		r := NewRegistry(Collaborators{})
		m := r.CreateSeeded(tpl, 99)
		for _, agent := range []string{"a", "b"} {
			if _, err := m.Join(agent, agent); err != nil {
				t.Fatalf("join: %v", err)
			}
		}
		snap := m.Snapshot()
		if snap.Grid == nil {
			t.Fatal("round 1 grid missing")
		}
		grids = append(grids, snap.Grid)
	}

	for row := range grids[0].Cells {
		for col := range grids[0].Cells[row] {
			if grids[0].Cells[row][col] != grids[1].Cells[row][col] {
				t.Fatalf("seeded grids diverge at (%d,%d)", row, col)
			}
		}
	}
}

func TestRegistryListAndActive(t *testing.T) {
	r := NewRegistry(Collaborators{})
	waiting := r.Create(arena.DefaultTemplate())
	_ = waiting

	started := r.Create(&arena.Template{
		Name:            "duo",
		Rows:            4,
		Cols:            4,
		ObstacleDensity: 0,
		RoundBudgetSec:  60,
		EntryStake:      1,
		Capacity:        2,
		Eliminations:    [arena.Rounds]int{0, 0, 1},
	})
	for _, agent := range []string{"a", "b"} {
		if _, err := started.Join(agent, agent); err != nil {
			t.Fatalf("join: %v", err)
		}
	}

	if got := len(r.List()); got != 2 {
		t.Fatalf("list length = %d, want 2", got)
	}
	active := r.Active()
	if len(active) != 1 || active[0].ID() != started.ID() {
		t.Fatalf("active = %d matches, want only the started one", len(active))
	}
}

func TestRegistryCleanupDropsOldTerminalMatches(t *testing.T) {
	r := NewRegistry(Collaborators{})

	old := r.Create(arena.DefaultTemplate())
	old.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	if err := old.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	fresh := r.Create(arena.DefaultTemplate())
	if err := fresh.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	live := r.Create(arena.DefaultTemplate())

	if removed := r.Cleanup(24 * time.Hour); removed != 1 {
		t.Fatalf("cleanup removed %d, want 1", removed)
	}
	if _, err := r.Get(old.ID()); !errors.Is(err, ErrMatchNotFound) {
		t.Fatal("stale terminal match should have been removed")
	}
	if _, err := r.Get(fresh.ID()); err != nil {
		t.Fatal("recently finished match should survive cleanup")
	}
	if _, err := r.Get(live.ID()); err != nil {
		t.Fatal("waiting match should survive cleanup")
	}
}
