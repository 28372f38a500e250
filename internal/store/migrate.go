package store

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"

	"github.com/pkordes/trip-planner/migrations"
)

// NewMigrator returns a goose provider for the migrations of dialect.
// Callers own db.
func NewMigrator(dialect goose.Dialect, db *sql.DB) (*goose.Provider, error) {
	var dir fs.FS
	switch dialect {
	case goose.DialectPostgres:
		dir = migrations.Postgres()
	case goose.DialectSQLite3:
		dir = migrations.SQLite()
	default:
		return nil, fmt.Errorf("store: no migrations for dialect %q", dialect)
	}

	provider, err := goose.NewProvider(dialect, db, dir)
	if err != nil {
		return nil, fmt.Errorf("store: create goose provider: %w", err)
	}
	return provider, nil
}

// Dialect returns the goose dialect for the backend cfg selects.
func (c Config) Dialect() goose.Dialect {
	if c.Backend() == BackendPostgres {
		return goose.DialectPostgres
	}
	return goose.DialectSQLite3
}

func migrateUp(ctx context.Context, dialect goose.Dialect, db *sql.DB, log *slog.Logger) error {
	provider, err := NewMigrator(dialect, db)
	if err != nil {
		return fmt.Errorf("store.Open: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("store.Open: run migrations: %w", err)
	}
	for _, r := range results {
		log.Info("migration applied", "version", r.Source.Version, "path", r.Source.Path)
	}
	return nil
}

// OpenSQL opens a database/sql handle for the backend cfg selects, for tools
// such as migrations that need database/sql rather than repositories.
func OpenSQL(ctx context.Context, cfg Config) (*sql.DB, error) {
	if cfg.Backend() == BackendSQLite {
		return OpenSQLite(ctx, cfg.SQLitePath)
	}
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres database: %w", err)
	}
	return db, nil
}
