package ingest

import (
	"context"
	"sync"

	"github.com/cricstats/cricsheet-data/internal/store"
)

// Resolver maps source-system person and team references to stable internal
// identities. It is constructed once per ingestion run and shared by all
// workers: the store does the atomic insert-if-absent, the resolver adds a
// process-wide cache so thousands of matches referencing the same player
// cost one store round-trip, not thousands.
type Resolver struct {
	store store.Store

	mu     sync.RWMutex
	people map[string]struct{} // person ids already ensured
	teams  map[string]int64    // team name -> surrogate id
}

// NewResolver creates a resolver over the given store.
func NewResolver(st store.Store) *Resolver {
	return &Resolver{
		store:  st,
		people: make(map[string]struct{}),
		teams:  make(map[string]int64),
	}
}

// ResolvePerson ensures a person identity exists for the source id and
// returns it. The source id is the natural key; the name is only recorded
// on first sight and never rewritten.
func (r *Resolver) ResolvePerson(ctx context.Context, sourceID, name string) (string, error) {
	if sourceID == "" {
		return "", validationf("person %q has no source id", name)
	}

	r.mu.RLock()
	_, seen := r.people[sourceID]
	r.mu.RUnlock()
	if seen {
		return sourceID, nil
	}

	if err := r.store.EnsurePerson(ctx, sourceID, name); err != nil {
		return "", storageWrap(err, "resolve person %q", sourceID)
	}

	r.mu.Lock()
	r.people[sourceID] = struct{}{}
	r.mu.Unlock()
	return sourceID, nil
}

// ResolveTeam ensures a team identity exists for the name and returns the
// surrogate id. Two workers racing on a new name converge on one id because
// the store insert is conditional and atomic.
func (r *Resolver) ResolveTeam(ctx context.Context, name, teamType string) (int64, error) {
	if name == "" {
		return 0, validationf("team has no name")
	}

	r.mu.RLock()
	id, seen := r.teams[name]
	r.mu.RUnlock()
	if seen {
		return id, nil
	}

	id, err := r.store.EnsureTeam(ctx, name, teamType)
	if err != nil {
		return 0, storageWrap(err, "resolve team %q", name)
	}

	r.mu.Lock()
	r.teams[name] = id
	r.mu.Unlock()
	return id, nil
}
