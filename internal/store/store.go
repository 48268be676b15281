// Package store is the storage boundary for the normalized cricket schema.
//
// The ingestion pipeline produces row values; the store owns persistence
// and the constraints: people keyed by the external cricsheet id, teams
// unique by name, one transaction per match batch. Two implementations
// exist: Postgres for production and Memory for tests.
package store

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrDuplicateMatch is returned by LoadMatch when a match with the same
// external key (name, match_number) is already present. Callers probe with
// FindMatch first; this covers the race between probe and load.
var ErrDuplicateMatch = errors.New("match already loaded")

// PersonRow is one row of the people table. ID is cricsheet's registry
// identifier, not a surrogate.
type PersonRow struct {
	ID   string
	Name string
}

// TeamRow is one row of the teams table. ID is a surrogate assigned by the
// store; Name is the natural key.
type TeamRow struct {
	ID       int64
	Name     string
	TeamType string
}

// MatchRow is one row of the matches table. Outcome fields are pointers:
// nil means the field does not apply to how this match concluded, which is
// distinct from an applicable-but-zero value.
type MatchRow struct {
	Name        string
	MatchNumber int
	MatchType   string
	Season      string
	Gender      string

	OutcomeBy               json.RawMessage
	OutcomeMethod           *string
	OutcomeResult           *string
	OutcomeWinnerTeamID     *int64
	OutcomeBowlOutTeamID    *int64
	OutcomeEliminatorTeamID *int64
}

// MatchTeamRow joins a match to one contesting team.
type MatchTeamRow struct {
	TeamID int64
}

// MatchPlayerRow joins a match to one player appearing for one team.
type MatchPlayerRow struct {
	TeamID   int64
	PersonID string
}

// DeliveryRow is one ball bowled. The coordinate
// (team, innings, over, delivery) is unique within a match. Extras columns
// are nil when that extra kind is absent from the source delivery, and the
// structured sub-events are opaque JSON payloads (nil when absent).
type DeliveryRow struct {
	TeamID         int64
	InningsNumber  int
	OverNumber     int
	DeliveryNumber int

	BatterID     string
	BowlerID     string
	NonStrikerID string

	RunsBatter      int
	RunsExtras      int
	RunsTotal       int
	RunsNonBoundary *bool

	ExtrasByes    *int
	ExtrasLegByes *int
	ExtrasNoBalls *int
	ExtrasPenalty *int
	ExtrasWides   *int

	Replacements json.RawMessage
	Review       json.RawMessage
	Wickets      json.RawMessage
}

// MatchBatch is the complete row set for one match. LoadMatch persists it
// atomically; the match surrogate id is assigned by the store and stamped
// onto the dependent rows during the load.
type MatchBatch struct {
	Match      MatchRow
	Teams      []MatchTeamRow
	Players    []MatchPlayerRow
	Deliveries []DeliveryRow
}

// Store is the persistence contract the pipeline writes through.
type Store interface {
	// EnsurePerson inserts a person if the id is unseen. An existing row is
	// left untouched even when the incoming name differs: first write wins,
	// so later variant spellings cannot corrupt an established identity.
	EnsurePerson(ctx context.Context, id, name string) error

	// EnsureTeam inserts a team by its unique name if unseen and returns
	// the surrogate id either way. Concurrent callers with the same name
	// must observe the same id.
	EnsureTeam(ctx context.Context, name, teamType string) (int64, error)

	// FindMatch looks up a previously loaded match by its external key.
	FindMatch(ctx context.Context, name string, matchNumber int) (int64, bool, error)

	// LoadMatch persists the whole batch in one transaction and returns the
	// new match id. Either every row lands or none does.
	LoadMatch(ctx context.Context, batch *MatchBatch) (int64, error)
}
