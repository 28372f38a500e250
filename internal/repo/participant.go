package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ParticipantRepo defines the persistence operations for Participants.
type ParticipantRepo interface {
	// Upsert inserts a participant, or, when a participant with the same
	// (trip, email) already exists, renames that participant and returns it.
	// The email must already be normalized; an empty email always inserts.
	// The unique constraint makes concurrent upserts of the same email
	// converge on a single row.
	Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// ListByTripID returns all participants of a trip ordered by created_at.
	// Always returns a non-nil slice.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)

	// Delete removes a participant by ID, scoped to the given tripID.
	// Returns domain.ErrNotFound if no participant with that ID exists under that trip.
	Delete(ctx context.Context, tripID, participantID uuid.UUID) error
}

// pgParticipantRepo is the Postgres implementation of ParticipantRepo.
type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

const participantColumns = `id, trip_id, name, email, created_at`

// Upsert relies on the (trip_id, email) unique constraint. NULL emails never
// conflict, so participants without an email are always inserted.
func (r *pgParticipantRepo) Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `
		INSERT INTO trip_participants (trip_id, name, email)
		VALUES (@trip_id, @name, @email)
		ON CONFLICT (trip_id, email) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + participantColumns

	args := pgx.NamedArgs{
		"trip_id": p.TripID,
		"name":    p.Name,
		"email":   nullString(p.Email),
	}

	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT ` + participantColumns + `
		FROM trip_participants
		WHERE trip_id = @trip_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	out := []domain.Participant{}
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: scan: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTripID: rows: %w", err)
	}
	return out, nil
}

func (r *pgParticipantRepo) Delete(ctx context.Context, tripID, participantID uuid.UUID) error {
	const q = `DELETE FROM trip_participants WHERE id = @id AND trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": participantID, "trip_id": tripID})
	if err != nil {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ParticipantRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		id     pgtype.UUID
		tripID pgtype.UUID
		email  pgtype.Text
	)
	err := s.Scan(&id, &tripID, &p.Name, &email, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.Email = email.String
	return p, nil
}
