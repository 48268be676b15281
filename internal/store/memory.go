package store

import (
	"context"
	"sync"
)

// Memory is an in-memory Store with the same semantics as the Postgres
// implementation: atomic insert-if-absent for identities and all-or-nothing
// match batches. It backs the pipeline tests.
type Memory struct {
	mu sync.Mutex

	people map[string]PersonRow // person_id -> row
	teams  map[string]TeamRow   // team name -> row

	nextTeamID  int64
	nextMatchID int64

	matches      map[int64]MatchRow
	matchKeys    map[matchKey]int64
	matchTeams   map[int64][]MatchTeamRow
	matchPlayers map[int64][]MatchPlayerRow
	deliveries   map[int64][]DeliveryRow

	// FailLoad, when set, is consulted before committing a batch; a non-nil
	// return aborts the load. Tests use it to exercise rollback and retry.
	FailLoad func(batch *MatchBatch) error
}

type matchKey struct {
	name        string
	matchNumber int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		people:       make(map[string]PersonRow),
		teams:        make(map[string]TeamRow),
		nextTeamID:   1,
		nextMatchID:  1,
		matches:      make(map[int64]MatchRow),
		matchKeys:    make(map[matchKey]int64),
		matchTeams:   make(map[int64][]MatchTeamRow),
		matchPlayers: make(map[int64][]MatchPlayerRow),
		deliveries:   make(map[int64][]DeliveryRow),
	}
}

// EnsurePerson inserts if absent; an existing row keeps its first-seen name.
func (s *Memory) EnsurePerson(ctx context.Context, id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.people[id]; !ok {
		s.people[id] = PersonRow{ID: id, Name: name}
	}
	return nil
}

// EnsureTeam inserts if absent and returns the surrogate id.
func (s *Memory) EnsureTeam(ctx context.Context, name, teamType string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.teams[name]; ok {
		return t.ID, nil
	}
	t := TeamRow{ID: s.nextTeamID, Name: name, TeamType: teamType}
	s.nextTeamID++
	s.teams[name] = t
	return t.ID, nil
}

// FindMatch looks up a loaded match by its external key.
func (s *Memory) FindMatch(ctx context.Context, name string, matchNumber int) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.matchKeys[matchKey{name, matchNumber}]
	return id, ok, nil
}

// LoadMatch stores the whole batch or nothing.
func (s *Memory) LoadMatch(ctx context.Context, batch *MatchBatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailLoad != nil {
		if err := s.FailLoad(batch); err != nil {
			return 0, err
		}
	}

	key := matchKey{batch.Match.Name, batch.Match.MatchNumber}
	if _, ok := s.matchKeys[key]; ok {
		return 0, ErrDuplicateMatch
	}

	id := s.nextMatchID
	s.nextMatchID++

	s.matches[id] = batch.Match
	s.matchKeys[key] = id
	s.matchTeams[id] = append([]MatchTeamRow(nil), batch.Teams...)
	s.matchPlayers[id] = append([]MatchPlayerRow(nil), batch.Players...)
	s.deliveries[id] = append([]DeliveryRow(nil), batch.Deliveries...)
	return id, nil
}

// ----------------------------------------------------------------------
// Test inspection helpers
// ----------------------------------------------------------------------

// Person returns the stored row for a person id.
func (s *Memory) Person(id string) (PersonRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.people[id]
	return p, ok
}

// Team returns the stored row for a team name.
func (s *Memory) Team(name string) (TeamRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.teams[name]
	return t, ok
}

// Match returns the stored match row for an id.
func (s *Memory) Match(id int64) (MatchRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	return m, ok
}

// Counts reports table sizes, matching the six-table layout.
func (s *Memory) Counts() (people, teams, matches, matchTeams, matchPlayers, deliveries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rows := range s.matchTeams {
		matchTeams += len(rows)
	}
	for _, rows := range s.matchPlayers {
		matchPlayers += len(rows)
	}
	for _, rows := range s.deliveries {
		deliveries += len(rows)
	}
	return len(s.people), len(s.teams), len(s.matches), matchTeams, matchPlayers, deliveries
}

// Deliveries returns the delivery rows loaded for a match.
func (s *Memory) Deliveries(matchID int64) []DeliveryRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeliveryRow(nil), s.deliveries[matchID]...)
}

// Players returns the match_players rows loaded for a match.
func (s *Memory) Players(matchID int64) []MatchPlayerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchPlayerRow(nil), s.matchPlayers[matchID]...)
}

// TeamsFor returns the match_teams rows loaded for a match.
func (s *Memory) TeamsFor(matchID int64) []MatchTeamRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MatchTeamRow(nil), s.matchTeams[matchID]...)
}
