package engine

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns the set of live matches, keyed by match id. IDs are
// random UUIDs, collision-free for the process lifetime.
type Registry struct {
	mu      sync.RWMutex
	matches map[string]*Match
}

func NewRegistry() *Registry {
	return &Registry{matches: make(map[string]*Match)}
}

// Create builds a new match in waiting state with the given seats and
// registers it. The first listed player is the first-mover.
func (r *Registry) Create(players ...int64) *Match {
	m := newMatch(uuid.NewString(), players...)

	r.mu.Lock()
	r.matches[m.ID] = m
	r.mu.Unlock()

	return m
}

// Get looks up a live match.
func (r *Registry) Get(id string) (*Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m, nil
}

// Remove discards a match once aborted or abandoned.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.matches, id)
	r.mu.Unlock()
}

// FindByPlayer returns every live match the player occupies. Used on
// disconnect to forfeit or abort whatever the player was part of.
func (r *Registry) FindByPlayer(playerID int64) []*Match {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Match
	for _, m := range r.matches {
		if m.HasPlayer(playerID) {
			out = append(out, m)
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
