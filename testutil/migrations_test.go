package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/store"
	"github.com/pkordes/trip-planner/testutil"
)

var tables = []string{"trips", "trip_items", "trip_participants"}

// TestMigrations_Postgres is an integration test that verifies the full
// migration round-trip against a real Postgres database:
//
//  1. Apply all migrations (goose up).
//  2. Assert every expected table exists.
//  3. Roll back all migrations (goose reset).
//  4. Assert every table has been removed.
//
// The test is skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations_Postgres(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := store.NewMigrator(goose.DialectPostgres, db)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may have already applied migrations against this
	// shared test DB. Reset to version 0 first so this test is self-contained and
	// order-independent, whether run alone or as part of the full suite.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations_Postgres: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")
	for _, table := range tables {
		assertTablePresence(t, db, postgresTableQuery, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range tables {
		assertTablePresence(t, db, postgresTableQuery, table, false)
	}

	// Leave the schema in place for packages that run after this one.
	_, err = provider.Up(ctx)
	require.NoError(t, err, "goose up (restore)")
}

// TestMigrations_SQLite runs the same round-trip against the embedded backend.
func TestMigrations_SQLite(t *testing.T) {
	ctx := context.Background()
	db, err := store.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider, err := store.NewMigrator(goose.DialectSQLite3, db)
	require.NoError(t, err)

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 3)
	for _, table := range tables {
		assertTablePresence(t, db, sqliteTableQuery, table, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range tables {
		assertTablePresence(t, db, sqliteTableQuery, table, false)
	}
}

const (
	postgresTableQuery = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public'
			AND   table_name   = $1
		)`
	sqliteTableQuery = `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name = ?
		)`
)

func assertTablePresence(t *testing.T, db *sql.DB, query, table string, shouldExist bool) {
	t.Helper()

	var exists bool
	err := db.QueryRowContext(context.Background(), query, table).Scan(&exists)
	require.NoError(t, err, "check table existence for %q", table)

	if shouldExist {
		assert.True(t, exists, "expected table %q to exist", table)
	} else {
		assert.False(t, exists, "expected table %q to not exist", table)
	}
}
