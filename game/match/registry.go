package match

import (
	"log"
	"sync"
	"time"

	"github.com/apexarena/gridrace/game/arena"
)

// Registry owns every live match. It hands out *Match handles; all match
// state transitions happen under the individual match's own lock, so the
// registry lock is only held for map access.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Match
	deps    Collaborators
}

// NewRegistry creates an empty registry sharing one collaborator set
// across all matches it creates.
func NewRegistry(deps Collaborators) *Registry {
	return &Registry{
		matches: make(map[string]*Match),
		deps:    deps,
	}
}

// Create opens a new match on the given template, seeded from the clock.
func (r *Registry) Create(tpl *arena.Template) *Match {
	return r.CreateSeeded(tpl, time.Now().UnixNano())
}

// CreateSeeded opens a new match with an explicit grid-generation seed.
// Identical seeds on identical templates reproduce the same grids, which
// the offline simulator relies on.
func (r *Registry) CreateSeeded(tpl *arena.Template, seed int64) *Match {
	m := newMatch(tpl, seed, r.deps)

	r.mu.Lock()
	r.matches[m.id] = m
	r.mu.Unlock()

	log.Printf("match %s created on template %q (capacity %d, stake %.2f)",
		m.id, tpl.Name, tpl.Capacity, tpl.EntryStake)
	return m
}

// Get returns the match with the given id.
func (r *Registry) Get(id string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// List returns snapshots of every registered match.
func (r *Registry) List() []*Snapshot {
	r.mu.RLock()
	handles := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		handles = append(handles, m)
	}
	r.mu.RUnlock()

	out := make([]*Snapshot, 0, len(handles))
	for _, m := range handles {
		out = append(out, m.Snapshot())
	}
	return out
}

// Active returns handles for every match currently inside a round. The
// round poller walks this to finalize rounds nobody is moving in.
func (r *Registry) Active() []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Match, 0, len(r.matches))
	for _, m := range r.matches {
		if m.Status().InRound() {
			out = append(out, m)
		}
	}
	return out
}

// Cleanup drops terminal matches older than maxAge and returns how many
// were removed.
func (r *Registry) Cleanup(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, m := range r.matches {
		snap := m.Snapshot()
		if snap.Status.Terminal() && snap.EndedAt.Before(cutoff) {
			delete(r.matches, id)
			removed++
		}
	}
	if removed > 0 {
		log.Printf("registry cleanup removed %d finished matches", removed)
	}
	return removed
}
