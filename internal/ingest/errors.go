// Package ingest is the cricsheet ingestion pipeline: it turns one decoded
// match document into the normalized row set for the people, teams,
// matches, match_teams, match_players and overs_deliveries tables, and
// loads it atomically with idempotent re-ingestion per match.
package ingest

import "github.com/cockroachdb/errors"

// Error taxonomy. Every pipeline failure is marked with exactly one of
// these so callers can classify with errors.Is regardless of wrapping.
var (
	// ErrValidation marks a malformed or missing required field considered
	// in isolation (empty natural key, undecodable document).
	ErrValidation = errors.New("validation error")

	// ErrIntegrity marks an inconsistent cross-reference within one
	// document: a dangling team reference, a player listed under two teams,
	// duplicate delivery coordinates.
	ErrIntegrity = errors.New("integrity error")

	// ErrStorage marks a persistence-layer rejection.
	ErrStorage = errors.New("storage error")
)

func validationf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrValidation)
}

func integrityf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrIntegrity)
}

func storageWrap(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), ErrStorage)
}
