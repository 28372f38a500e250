package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field; set only the ones your test needs.
type mockTripRepo struct {
	create     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByToken func(ctx context.Context, token string) (domain.Trip, error)
	update     func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.getByToken(ctx, token)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// mockItemRepo is a hand-written test double for repo.ItemRepo.
type mockItemRepo struct {
	create       func(ctx context.Context, item domain.Item) (domain.Item, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error)
	delete       func(ctx context.Context, tripID, itemID uuid.UUID) error
}

func (m *mockItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	return m.create(ctx, item)
}
func (m *mockItemRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Item, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockItemRepo) Delete(ctx context.Context, tripID, itemID uuid.UUID) error {
	return m.delete(ctx, tripID, itemID)
}

// mockParticipantRepo is a hand-written test double for repo.ParticipantRepo.
type mockParticipantRepo struct {
	upsert       func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
	delete       func(ctx context.Context, tripID, participantID uuid.UUID) error
}

func (m *mockParticipantRepo) Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	return m.upsert(ctx, p)
}
func (m *mockParticipantRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockParticipantRepo) Delete(ctx context.Context, tripID, participantID uuid.UUID) error {
	return m.delete(ctx, tripID, participantID)
}

// compile-time checks: mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ repo.ItemRepo        = (*mockItemRepo)(nil)
	_ repo.ParticipantRepo = (*mockParticipantRepo)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testToken = "0123456789abcdef0123456789abcdef"

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// storedTrip is the trip every token lookup in these tests resolves to.
func storedTrip() domain.Trip {
	return domain.Trip{
		ID:          uuid.MustParse("6f1c1d2e-0000-4000-8000-000000000001"),
		Token:       testToken,
		Title:       "Lisbon Summer",
		Destination: "Lisbon",
		StartDate:   date(2025, 6, 1),
		EndDate:     date(2025, 6, 10),
		Currency:    "EUR",
		CreatedAt:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tripLookup returns a TripRepo that knows exactly one trip, storedTrip.
func tripLookup() *mockTripRepo {
	return &mockTripRepo{
		getByToken: func(_ context.Context, token string) (domain.Trip, error) {
			if token != testToken {
				return domain.Trip{}, domain.ErrNotFound
			}
			return storedTrip(), nil
		},
	}
}

func ptr[T any](v T) *T { return &v }
