// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/pkordes/trip-planner/internal/store"
)

// Config holds all configuration values for the API server and tripctl.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Empty selects the
	// embedded SQLite database at SQLitePath.
	DatabaseURL string

	// SQLitePath is the SQLite database file. Defaults to "data/tripplanner.db".
	SQLitePath string

	// DBPoolSize caps concurrent Postgres connections. Defaults to 10.
	DBPoolSize int

	// DBConnectRetry is how long startup keeps retrying the database.
	// Defaults to 30s. Parsed with time.ParseDuration.
	DBConnectRetry time.Duration

	// PublicBaseURL is prepended to share links, e.g. "https://trips.example.com".
	// Empty derives it from each request's Host header.
	PublicBaseURL string

	// MaxBodyBytes bounds request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// RateLimitRPS and RateLimitBurst configure the per-client rate limiter.
	// Defaults are 10 requests per second with bursts of 20; RPS 0 disables it.
	RateLimitRPS   float64
	RateLimitBurst int

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// LoadDotEnv reads KEY=VALUE pairs from the given files (".env" when none are
// given) into the process environment. Variables already set win. Missing
// files are not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config: load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every variable that holds an invalid value.
func Load() (Config, error) {
	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:    getEnv("SQLITE_PATH", "data/tripplanner.db"),
		PublicBaseURL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var invalid []string
	parse := func(key, fallback string, fn func(string) error) {
		if err := fn(getEnv(key, fallback)); err != nil {
			invalid = append(invalid, key)
		}
	}

	parse("DB_POOL_SIZE", "10", func(s string) (err error) {
		cfg.DBPoolSize, err = positiveInt(s)
		return err
	})
	parse("DB_CONNECT_RETRY", "30s", func(s string) (err error) {
		cfg.DBConnectRetry, err = time.ParseDuration(s)
		if err == nil && cfg.DBConnectRetry < 0 {
			err = errors.New("negative")
		}
		return err
	})
	parse("MAX_BODY_BYTES", "1048576", func(s string) error {
		n, err := positiveInt(s)
		cfg.MaxBodyBytes = int64(n)
		return err
	})
	parse("RATE_LIMIT_RPS", "10", func(s string) (err error) {
		cfg.RateLimitRPS, err = strconv.ParseFloat(s, 64)
		if err == nil && cfg.RateLimitRPS < 0 {
			err = errors.New("negative")
		}
		return err
	})
	parse("RATE_LIMIT_BURST", "20", func(s string) (err error) {
		cfg.RateLimitBurst, err = positiveInt(s)
		return err
	})

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variables: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

// StoreConfig returns the subset of cfg the store needs.
func (c Config) StoreConfig() store.Config {
	return store.Config{
		DatabaseURL:  c.DatabaseURL,
		SQLitePath:   c.SQLitePath,
		PoolSize:     c.DBPoolSize,
		ConnectRetry: c.DBConnectRetry,
	}
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, errors.New("must be positive")
	}
	return n, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
