package repo_test

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/testutil"
)

// repos groups the three repositories of one backend, all sharing one
// connection or transaction.
type repos struct {
	trips        repo.TripRepo
	items        repo.ItemRepo
	participants repo.ParticipantRepo
}

// eachBackend runs fn once per storage backend as a subtest.
//
// The SQLite subtest always runs on a fresh in-memory database. The Postgres
// subtest opens a transaction that is rolled back when the test finishes and
// is skipped when TEST_DATABASE_URL is not set.
func eachBackend(t *testing.T, fn func(t *testing.T, r repos)) {
	t.Helper()

	t.Run("sqlite", func(t *testing.T) {
		db := testutil.NewSQLite(t)
		fn(t, repos{
			trips:        repo.NewSQLiteTripRepo(db),
			items:        repo.NewSQLiteItemRepo(db),
			participants: repo.NewSQLiteParticipantRepo(db),
		})
	})

	t.Run("postgres", func(t *testing.T) {
		pool := testutil.NewPool(t)
		tx, err := pool.Begin(context.Background())
		require.NoError(t, err, "begin transaction")
		t.Cleanup(func() {
			// Rollback discards all changes made during the test.
			_ = tx.Rollback(context.Background())
		})
		fn(t, repos{
			trips:        repo.NewTripRepo(tx),
			items:        repo.NewItemRepo(tx),
			participants: repo.NewParticipantRepo(tx),
		})
	})
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newToken(t *testing.T) string {
	t.Helper()
	b := make([]byte, 16)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return hex.EncodeToString(b)
}

// tripFixture returns a domain.Trip with sensible defaults for use in tests.
// Callers can override individual fields after calling this function.
func tripFixture(t *testing.T) domain.Trip {
	return domain.Trip{
		Token:       newToken(t),
		Title:       "Lisbon Summer",
		Destination: "Lisbon",
		StartDate:   date(2025, 6, 1),
		EndDate:     date(2025, 6, 10),
		Currency:    "EUR",
	}
}

// mustCreateTrip inserts a parent trip and fails the test if the insert fails.
func mustCreateTrip(t *testing.T, r repo.TripRepo) domain.Trip {
	t.Helper()
	trip, err := r.Create(context.Background(), tripFixture(t))
	require.NoError(t, err, "create parent trip")
	return trip
}

func ptr[T any](v T) *T { return &v }
