// Package repo contains all database access logic for the Trip Planner API.
// Each resource has its own file with an interface and a Postgres
// implementation; sqlite.go holds the embedded SQLite implementations of the
// same interfaces. No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not a concrete implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// id and created_at populated). The token must already be set.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByToken retrieves a single trip by its share token.
	// Returns domain.ErrNotFound if no trip has that token.
	GetByToken(ctx context.Context, token string) (domain.Trip, error)

	// Update overwrites the mutable fields of an existing trip (everything
	// except id, token and created_at) and returns the updated record.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID together with its items and participants.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, token, title, destination, start_date, end_date, currency, created_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (token, title, destination, start_date, end_date, currency)
		VALUES (@token, @title, @destination, @start_date, @end_date, @currency)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"token":       trip.Token,
		"title":       trip.Title,
		"destination": trip.Destination,
		"start_date":  pgDate(trip.StartDate),
		"end_date":    pgDate(trip.EndDate),
		"currency":    trip.Currency,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// GetByToken retrieves a trip by its share token.
func (r *pgTripRepo) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE token = @token`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByToken: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of a trip and returns the updated record.
func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET title       = @title,
		    destination = @destination,
		    start_date  = @start_date,
		    end_date    = @end_date,
		    currency    = @currency
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":          trip.ID,
		"title":       trip.Title,
		"destination": trip.Destination,
		"start_date":  pgDate(trip.StartDate),
		"end_date":    pgDate(trip.EndDate),
		"currency":    trip.Currency,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a trip by primary key. Items and participants go with it
// through ON DELETE CASCADE.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows, allowing
// the scan helpers to be reused for single- and multi-row queries.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &t.Token, &t.Title, &t.Destination, &startDate, &endDate, &t.Currency, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = domain.DateOnly(startDate.Time)
	t.EndDate = domain.DateOnly(endDate.Time)
	return t, nil
}

// pgDate wraps a calendar date for a Postgres date column.
func pgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: domain.DateOnly(t), Valid: true}
}
