// Package db provides a pgxpool-based connection pool with prepared
// statement registration, schema initialization and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cricstats/cricsheet-data/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// InitSchema creates the normalized cricket tables if they do not exist.
func (p *Pool) InitSchema(ctx context.Context) error {
	if _, err := p.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// Report statement names. The season reports are pure read-only
// aggregations over the normalized tables; the pipeline guarantees the
// tables are complete enough for these to be correct.
const (
	StmtTopBatsmen           = "report_top_batsmen"
	StmtTopBatterStrikeRates = "report_top_batter_strike_rates"
	StmtTopWicketTakers      = "report_top_wicket_takers"
)

// registerPreparedStatements registers all statements the API and report
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Reports: total runs per batter for a season
		StmtTopBatsmen: `
			SELECT
				p.name AS batter_name,
				SUM(od.runs_batter) AS total_runs
			FROM overs_deliveries od
			INNER JOIN people p ON od.batter_id = p.person_id
			INNER JOIN matches m ON od.match_id = m.match_id
			WHERE m.season = $1
			GROUP BY 1
			ORDER BY 2 DESC
			LIMIT 10`,

		// Reports: strike rate = runs per 100 balls faced
		StmtTopBatterStrikeRates: `
			SELECT
				p.name AS batter_name,
				SUM(od.runs_batter) AS total_runs,
				COUNT(od.delivery_id) AS balls_faced,
				ROUND((SUM(od.runs_batter)::decimal / COUNT(od.delivery_id)) * 100, 2) AS strike_rate
			FROM overs_deliveries od
			INNER JOIN people p ON od.batter_id = p.person_id
			INNER JOIN matches m ON od.match_id = m.match_id
			WHERE m.season = $1
			GROUP BY 1
			ORDER BY strike_rate DESC
			LIMIT 10`,

		// Reports: deliveries with a wickets payload, grouped by bowler
		StmtTopWicketTakers: `
			SELECT
				p.name AS bowler_name,
				COUNT(*) AS total_wickets
			FROM overs_deliveries od
			INNER JOIN people p ON od.bowler_id = p.person_id
			INNER JOIN matches m ON od.match_id = m.match_id
			WHERE
				m.season = $1
				AND od.wickets IS NOT NULL
			GROUP BY 1
			ORDER BY 2 DESC
			LIMIT 10`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
