package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres error code for unique constraint hits.
const uniqueViolation = "23505"

// Postgres implements Store on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps a pool in a Store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsurePerson inserts the person unless the external id is already known.
// ON CONFLICT DO NOTHING keeps the first-seen name: identities are never
// rewritten by later documents.
func (s *Postgres) EnsurePerson(ctx context.Context, id, name string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO people (person_id, name)
		VALUES ($1, $2)
		ON CONFLICT (person_id) DO NOTHING`,
		id, name,
	)
	if err != nil {
		return fmt.Errorf("ensure person %q: %w", id, err)
	}
	return nil
}

// EnsureTeam inserts the team by name if unseen, then resolves the surrogate
// id. The conditional insert is atomic, so two workers racing on the same
// name both converge on a single row.
func (s *Postgres) EnsureTeam(ctx context.Context, name, teamType string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO teams (name, team_type)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING
		RETURNING team_id`,
		name, teamType,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("ensure team %q: %w", name, err)
	}

	// Conflict path: the row already existed, look it up.
	err = s.pool.QueryRow(ctx, `SELECT team_id FROM teams WHERE name = $1`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("lookup team %q: %w", name, err)
	}
	return id, nil
}

// FindMatch probes for a previously loaded match by its external key.
func (s *Postgres) FindMatch(ctx context.Context, name string, matchNumber int) (int64, bool, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		SELECT match_id FROM matches WHERE name = $1 AND match_number = $2`,
		name, matchNumber,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find match %q/%d: %w", name, matchNumber, err)
	}
	return id, true, nil
}

// LoadMatch writes the complete batch in one transaction. The deliveries go
// through CopyFrom, which is the bulk path — an ODI document carries 600+
// delivery rows.
func (s *Postgres) LoadMatch(ctx context.Context, batch *MatchBatch) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin match transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	m := batch.Match
	var matchID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO matches (
			name, match_number, match_type, season, gender,
			outcome_by, outcome_method, outcome_result,
			outcome_winner_team_id, outcome_bowl_out_team_id, outcome_eliminator_team_id
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING match_id`,
		m.Name, m.MatchNumber, m.MatchType, m.Season, m.Gender,
		rawOrNil(m.OutcomeBy), m.OutcomeMethod, m.OutcomeResult,
		m.OutcomeWinnerTeamID, m.OutcomeBowlOutTeamID, m.OutcomeEliminatorTeamID,
	).Scan(&matchID)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateMatch
		}
		return 0, fmt.Errorf("insert match: %w", err)
	}

	for _, t := range batch.Teams {
		if _, err := tx.Exec(ctx, `
			INSERT INTO match_teams (match_id, team_id) VALUES ($1, $2)`,
			matchID, t.TeamID,
		); err != nil {
			return 0, fmt.Errorf("insert match team %d: %w", t.TeamID, err)
		}
	}

	for _, p := range batch.Players {
		if _, err := tx.Exec(ctx, `
			INSERT INTO match_players (match_id, team_id, player_id) VALUES ($1, $2, $3)`,
			matchID, p.TeamID, p.PersonID,
		); err != nil {
			return 0, fmt.Errorf("insert match player %s: %w", p.PersonID, err)
		}
	}

	if len(batch.Deliveries) > 0 {
		rows := make([][]interface{}, 0, len(batch.Deliveries))
		for _, d := range batch.Deliveries {
			rows = append(rows, []interface{}{
				matchID, d.TeamID, d.InningsNumber, d.OverNumber, d.DeliveryNumber,
				d.BatterID, d.BowlerID, d.NonStrikerID,
				d.RunsBatter, d.RunsExtras, d.RunsTotal, d.RunsNonBoundary,
				d.ExtrasByes, d.ExtrasLegByes, d.ExtrasNoBalls, d.ExtrasPenalty, d.ExtrasWides,
				rawOrNil(d.Replacements), rawOrNil(d.Review), rawOrNil(d.Wickets),
			})
		}

		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"overs_deliveries"},
			[]string{
				"match_id", "team_id", "innings_number", "over_number", "delivery_number",
				"batter_id", "bowler_id", "non_striker_id",
				"runs_batter", "runs_extras", "runs_total", "runs_non_boundary",
				"extras_byes", "extras_legbyes", "extras_noballs", "extras_penalty", "extras_wides",
				"replacements", "review", "wickets",
			},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, fmt.Errorf("copy deliveries: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit match %q: %w", m.Name, err)
	}
	return matchID, nil
}

// rawOrNil maps an absent JSON payload to SQL NULL.
func rawOrNil(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
