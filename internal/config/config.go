// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Ingest source registry — named cricsheet archives
// --------------------------------------------------------------------------

// Source is one downloadable cricsheet archive of match JSON files.
type Source struct {
	ID  string
	URL string
}

// SourceRegistry maps ingest mode names to cricsheet archives.
var SourceRegistry = map[string]Source{
	"odi_all":  {ID: "odi_all", URL: "https://cricsheet.org/downloads/odis_json.zip"},
	"t20i_all": {ID: "t20i_all", URL: "https://cricsheet.org/downloads/t20s_json.zip"},
	"test_all": {ID: "test_all", URL: "https://cricsheet.org/downloads/tests_json.zip"},
}

// SourceNames returns the registered ingest mode names, for CLI help.
func SourceNames() []string {
	names := make([]string, 0, len(SourceRegistry))
	for name := range SourceRegistry {
		names = append(names, name)
	}
	return names
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Cache
	CacheEnabled bool

	// Ingestion
	DataDir       string // root for downloaded and unzipped archives
	IngestWorkers int
}

// Load reads configuration from environment variables with sensible
// defaults. DATABASE_URL wins when set; otherwise the URL is assembled from
// the individual POSTGRES_* variables.
func Load() (*Config, error) {
	dbURL := envOr("DATABASE_URL", "")
	if dbURL == "" {
		var err error
		dbURL, err = postgresURLFromParts()
		if err != nil {
			return nil, err
		}
	}

	return &Config{
		DatabaseURL:    dbURL,
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		DataDir:       envOr("DATA_DIR", "data"),
		IngestWorkers: envInt("INGEST_WORKERS", 4),
	}, nil
}

// RawDir is where downloaded archives land.
func (c *Config) RawDir() string { return filepath.Join(c.DataDir, "01_raw") }

// UnzippedDir is where archives are extracted.
func (c *Config) UnzippedDir() string { return filepath.Join(c.DataDir, "02_unzipped") }

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// postgresURLFromParts assembles a connection URL from the POSTGRES_* env
// variables.
func postgresURLFromParts() (string, error) {
	host := envOr("POSTGRES_HOST", "")
	port := envOr("POSTGRES_PORT", "5432")
	db := envOr("POSTGRES_DB", "")
	user := envOr("POSTGRES_USER", "")
	pass := envOr("POSTGRES_PASSWORD", "")

	if host == "" || db == "" || user == "" {
		return "", fmt.Errorf("DATABASE_URL or POSTGRES_HOST/POSTGRES_DB/POSTGRES_USER must be set")
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(user, pass),
		Host:   host + ":" + port,
		Path:   "/" + db,
	}
	return u.String(), nil
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
