// Command ingest is the cricsheet data ingestion CLI.
//
// Usage:
//
//	cricsheet-ingest initdb
//	cricsheet-ingest ingest --mode odi_all --workers 4
//	cricsheet-ingest ingest --dir ./data/02_unzipped/odis_json
//	cricsheet-ingest report --name top_batsmen --season 2019
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/cricstats/cricsheet-data/internal/archive"
	"github.com/cricstats/cricsheet-data/internal/config"
	"github.com/cricstats/cricsheet-data/internal/db"
	"github.com/cricstats/cricsheet-data/internal/ingest"
	"github.com/cricstats/cricsheet-data/internal/report"
	"github.com/cricstats/cricsheet-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "cricsheet-ingest",
		Short: "Cricsheet data ingestion CLI",
	}

	root.AddCommand(initDBCmd())
	root.AddCommand(ingestCmd())
	root.AddCommand(reportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// initdb command
// --------------------------------------------------------------------------

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "initdb",
		Short: "Create the normalized cricket schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				if err := pool.InitSchema(ctx); err != nil {
					return err
				}
				logger.Info("Database initialized")
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// ingest command
// --------------------------------------------------------------------------

func ingestCmd() *cobra.Command {
	var (
		mode    string
		dir     string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Ingest cricsheet match documents into the database",
		Long: "Downloads and unzips a registered cricsheet archive (--mode), or reads an\n" +
			"existing directory of match JSON files (--dir), and loads every match.\n" +
			"Re-running over already loaded matches is a no-op per match.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				matchDir := dir
				if matchDir == "" {
					source, ok := config.SourceRegistry[mode]
					if !ok {
						names := config.SourceNames()
						sort.Strings(names)
						return fmt.Errorf("unknown mode %q (available: %s)", mode, strings.Join(names, ", "))
					}

					logger.Info("Downloading archive", "mode", mode, "url", source.URL)
					zipPath, err := archive.Download(ctx, source.URL, cfg.RawDir())
					if err != nil {
						return err
					}
					logger.Info("Extracting archive", "path", zipPath)
					matchDir, err = archive.Unzip(zipPath, cfg.UnzippedDir())
					if err != nil {
						return err
					}
				}

				files, err := archive.MatchFiles(matchDir)
				if err != nil {
					return err
				}
				logger.Info("Starting ingestion", "files", len(files), "workers", workers)

				ing := ingest.NewIngestor(store.NewPostgres(pool.Pool), logger)
				start := time.Now()
				result := ingest.Run(ctx, ing, files, workers, logger)
				logger.Info("Ingestion finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				if len(result.Errors) > 0 {
					for _, e := range result.Errors {
						logger.Error("ingest error", "error", e)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "odi_all", "Registered cricsheet archive to ingest")
	cmd.Flags().StringVar(&dir, "dir", "", "Ingest an existing directory of match JSON files instead of downloading")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent worker count")
	return cmd
}

// --------------------------------------------------------------------------
// report command
// --------------------------------------------------------------------------

func reportCmd() *cobra.Command {
	var (
		name   string
		season string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run a canned season report",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || season == "" {
				return fmt.Errorf("--name and --season are required (reports: %s)", strings.Join(report.Names(), ", "))
			}
			return withPool(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				result, err := report.Run(ctx, pool.Pool, name, season)
				if err != nil {
					return err
				}
				report.RenderTable(os.Stdout, result)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Report name")
	cmd.Flags().StringVar(&season, "season", "", "Season to report on")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// withPool handles config loading, DB connection, and context cancellation.
func withPool(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
