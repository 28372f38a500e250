// Package store opens the persistence backend chosen at startup and hands out
// the repositories built on it.
//
// The backend is selected by Config alone: a non-empty DatabaseURL selects
// Postgres, otherwise an embedded SQLite file is used. Nothing here reads the
// environment; cmd/ builds the Config from internal/config.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite" // registers the "sqlite" driver for database/sql

	"github.com/pkordes/trip-planner/internal/repo"
)

// Backend names the storage engine behind a Store.
type Backend string

const (
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// Config is the explicit startup configuration of the store.
type Config struct {
	// DatabaseURL is the Postgres connection string. Empty selects SQLite.
	DatabaseURL string

	// SQLitePath is the database file used when DatabaseURL is empty.
	// ":memory:" opens a private in-memory database.
	SQLitePath string

	// PoolSize caps concurrent Postgres connections. Zero keeps the pgx default.
	PoolSize int

	// ConnectRetry is how long Open keeps retrying the first connection
	// before giving up. Zero means a single attempt.
	ConnectRetry time.Duration
}

// Backend reports which engine the config selects.
func (c Config) Backend() Backend {
	if strings.TrimSpace(c.DatabaseURL) != "" {
		return BackendPostgres
	}
	return BackendSQLite
}

// Store bundles the repositories of one open backend.
type Store struct {
	Trips        repo.TripRepo
	Items        repo.ItemRepo
	Participants repo.ParticipantRepo

	backend Backend
	ping    func(ctx context.Context) error
	close   func()
}

// Backend reports the engine this store runs on.
func (s *Store) Backend() Backend { return s.backend }

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error { return s.ping(ctx) }

// Close releases all connections.
func (s *Store) Close() { s.close() }

// Open connects to the configured backend, retrying within cfg.ConnectRetry,
// applies pending migrations, and returns the ready store.
func Open(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	switch cfg.Backend() {
	case BackendPostgres:
		return openPostgres(ctx, cfg, log)
	default:
		return openSQLite(ctx, cfg, log)
	}
}

func openPostgres(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("store.Open: parse database url: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolCfg.MaxConns = int32(cfg.PoolSize)
	}

	// NewWithConfig does not open connections immediately; the ping does.
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("store.Open: create pool: %w", err)
	}

	if err := connectWithRetry(ctx, cfg.ConnectRetry, log, pool.Ping); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store.Open: connect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()
	if err := migrateUp(ctx, goose.DialectPostgres, sqlDB, log); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("database connection established", "backend", BackendPostgres, "max_conns", poolCfg.MaxConns)
	return &Store{
		Trips:        repo.NewTripRepo(pool),
		Items:        repo.NewItemRepo(pool),
		Participants: repo.NewParticipantRepo(pool),
		backend:      BackendPostgres,
		ping:         pool.Ping,
		close:        pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg Config, log *slog.Logger) (*Store, error) {
	var db *sql.DB
	err := connectWithRetry(ctx, cfg.ConnectRetry, log, func(ctx context.Context) error {
		var err error
		db, err = OpenSQLite(ctx, cfg.SQLitePath)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}

	if err := migrateUp(ctx, goose.DialectSQLite3, db, log); err != nil {
		db.Close()
		return nil, err
	}

	log.Info("database connection established", "backend", BackendSQLite, "path", cfg.SQLitePath)
	return &Store{
		Trips:        repo.NewSQLiteTripRepo(db),
		Items:        repo.NewSQLiteItemRepo(db),
		Participants: repo.NewSQLiteParticipantRepo(db),
		backend:      BackendSQLite,
		ping:         db.PingContext,
		close:        func() { _ = db.Close() },
	}, nil
}

// OpenSQLite opens the SQLite database at path with foreign keys enforced.
// The pool is limited to one connection: SQLite has a single writer, and an
// in-memory database only lives as long as its connection.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// connectWithRetry calls connect until it succeeds or window elapses, backing
// off exponentially from 250ms. Context cancellation stops it early.
func connectWithRetry(ctx context.Context, window time.Duration, log *slog.Logger, connect func(context.Context) error) error {
	if window <= 0 {
		return connect(ctx)
	}

	backoff := retry.WithMaxDuration(window, retry.WithCappedDuration(5*time.Second, retry.NewExponential(250*time.Millisecond)))
	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := connect(ctx); err != nil {
			log.Warn("database not reachable, retrying", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
