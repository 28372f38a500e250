package store

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
)

var discard = slog.New(slog.DiscardHandler)

func TestConfig_Backend(t *testing.T) {
	assert.Equal(t, BackendSQLite, Config{}.Backend())
	assert.Equal(t, BackendSQLite, Config{DatabaseURL: "   "}.Backend())
	assert.Equal(t, BackendPostgres, Config{DatabaseURL: "postgres://localhost/trips"}.Backend())
}

// TestOpen_sqliteMigratesAndServes verifies that Open on a fresh file applies
// the schema and returns working repositories.
func TestOpen_sqliteMigratesAndServes(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "trips.db")

	st, err := Open(ctx, Config{SQLitePath: path}, discard)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	assert.Equal(t, BackendSQLite, st.Backend())
	require.NoError(t, st.Ping(ctx))

	trip, err := st.Trips.Create(ctx, domain.Trip{
		Token:       "0123456789abcdef0123456789abcdef",
		Title:       "Lisbon Summer",
		Destination: "Lisbon",
		StartDate:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Currency:    "EUR",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, trip.ID)

	got, err := st.Trips.GetByToken(ctx, trip.Token)
	require.NoError(t, err)
	assert.Equal(t, "Lisbon Summer", got.Title)
}

// TestOpen_reopenKeepsData verifies that a second Open finds nothing to
// migrate and sees earlier writes.
func TestOpen_reopenKeepsData(t *testing.T) {
	ctx := context.Background()
	cfg := Config{SQLitePath: filepath.Join(t.TempDir(), "trips.db")}

	st, err := Open(ctx, cfg, discard)
	require.NoError(t, err)
	_, err = st.Trips.Create(ctx, domain.Trip{
		Token: "fedcba9876543210fedcba9876543210", Title: "Porto", Destination: "Porto",
		StartDate: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), EndDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Currency: "EUR",
	})
	require.NoError(t, err)
	st.Close()

	st, err = Open(ctx, cfg, discard)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	_, err = st.Trips.GetByToken(ctx, "fedcba9876543210fedcba9876543210")
	require.NoError(t, err)
}

func TestOpenSQLite_emptyPath(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "")
	require.Error(t, err)
}

func TestConnectWithRetry_succeedsAfterFailures(t *testing.T) {
	calls := 0
	err := connectWithRetry(context.Background(), 10*time.Second, discard, func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestConnectWithRetry_noWindowTriesOnce(t *testing.T) {
	calls := 0
	refused := errors.New("connection refused")
	err := connectWithRetry(context.Background(), 0, discard, func(context.Context) error {
		calls++
		return refused
	})

	require.ErrorIs(t, err, refused)
	assert.Equal(t, 1, calls)
}

func TestConnectWithRetry_givesUpAfterWindow(t *testing.T) {
	start := time.Now()
	err := connectWithRetry(context.Background(), 300*time.Millisecond, discard, func(context.Context) error {
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}
