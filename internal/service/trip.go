// Package service contains the business logic for the Trip Planner API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

const maxDurationDays = 365

// TripInput carries the editable fields of a trip.
//
// EndDate wins over DurationDays. When EndDate is nil, DurationDays must be
// set and the trip covers that many days starting on StartDate.
type TripInput struct {
	Title        string
	Destination  string
	StartDate    time.Time
	EndDate      *time.Time
	DurationDays *int
	Currency     string
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips        repo.TripRepo
	items        repo.ItemRepo
	participants repo.ParticipantRepo
	log          *slog.Logger
}

// NewTripService constructs a TripService backed by the provided repos.
// A nil logger falls back to slog.Default().
func NewTripService(trips repo.TripRepo, items repo.ItemRepo, participants repo.ParticipantRepo, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{trips: trips, items: items, participants: participants, log: log}
}

// Create validates the input, assigns a fresh share token and persists the trip.
// Returns domain.ErrValidation if input violates business rules.
func (s *TripService) Create(ctx context.Context, in TripInput) (domain.Trip, error) {
	trip, err := tripFromInput(in)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.Token, err = newToken(); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	result, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, storageFailure(ctx, s.log, "service.TripService.Create", err)
	}
	return result, nil
}

// GetByToken returns a single trip by its share token.
// Returns domain.ErrNotFound if no trip has that token.
func (s *TripService) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.Trip{}, lookupFailure(ctx, s.log, "service.TripService.GetByToken", err)
	}
	return trip, nil
}

// Update validates the input and overwrites the trip's editable fields.
// The token never changes. Existing items are not re-checked against the
// new date range.
func (s *TripService) Update(ctx context.Context, token string, in TripInput) (domain.Trip, error) {
	current, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.Trip{}, lookupFailure(ctx, s.log, "service.TripService.Update", err)
	}
	next, err := tripFromInput(in)
	if err != nil {
		return domain.Trip{}, err
	}
	next.ID = current.ID
	next.Token = current.Token

	result, err := s.trips.Update(ctx, next)
	if err != nil {
		return domain.Trip{}, lookupFailure(ctx, s.log, "service.TripService.Update", err)
	}
	return result, nil
}

// Delete removes a trip together with its items and participants.
// Returns domain.ErrNotFound if no trip has that token.
func (s *TripService) Delete(ctx context.Context, token string) error {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return lookupFailure(ctx, s.log, "service.TripService.Delete", err)
	}
	if err := s.trips.Delete(ctx, trip.ID); err != nil {
		return lookupFailure(ctx, s.log, "service.TripService.Delete", err)
	}
	return nil
}

// View loads a trip with its items and participants and aggregates them.
// The view is rebuilt on every call.
func (s *TripService) View(ctx context.Context, token string) (domain.TripView, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.TripView{}, lookupFailure(ctx, s.log, "service.TripService.View", err)
	}
	items, err := s.items.ListByTripID(ctx, trip.ID)
	if err != nil {
		return domain.TripView{}, lookupFailure(ctx, s.log, "service.TripService.View", err)
	}
	participants, err := s.participants.ListByTripID(ctx, trip.ID)
	if err != nil {
		return domain.TripView{}, lookupFailure(ctx, s.log, "service.TripService.View", err)
	}
	return Aggregate(trip, items, participants), nil
}

// tripFromInput enforces the trip field rules and normalizes the input.
func tripFromInput(in TripInput) (domain.Trip, error) {
	title := strings.TrimSpace(in.Title)
	if err := checkLength("title", title, 2, 200); err != nil {
		return domain.Trip{}, err
	}
	destination := strings.TrimSpace(in.Destination)
	if err := checkLength("destination", destination, 2, 200); err != nil {
		return domain.Trip{}, err
	}
	if in.StartDate.IsZero() {
		return domain.Trip{}, fmt.Errorf("%w: start date is required", domain.ErrValidation)
	}
	start := domain.DateOnly(in.StartDate)

	var end time.Time
	switch {
	case in.EndDate != nil:
		end = domain.DateOnly(*in.EndDate)
	case in.DurationDays != nil:
		days := *in.DurationDays
		if days < 1 || days > maxDurationDays {
			return domain.Trip{}, fmt.Errorf("%w: invalid duration, use 1 to %d days", domain.ErrValidation, maxDurationDays)
		}
		end = start.AddDate(0, 0, days-1)
	default:
		return domain.Trip{}, fmt.Errorf("%w: end date or duration is required", domain.ErrValidation)
	}
	if end.Before(start) {
		return domain.Trip{}, fmt.Errorf("%w: end date cannot be before start date", domain.ErrValidation)
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	if len(currency) > 8 {
		return domain.Trip{}, fmt.Errorf("%w: currency must be at most 8 characters", domain.ErrValidation)
	}

	return domain.Trip{
		Title:       title,
		Destination: destination,
		StartDate:   start,
		EndDate:     end,
		Currency:    currency,
	}, nil
}

// checkLength validates the rune length of an already trimmed field.
func checkLength(field, v string, minLen, maxLen int) error {
	n := utf8.RuneCountInString(v)
	if n < minLen || n > maxLen {
		return fmt.Errorf("%w: %s must be between %d and %d characters", domain.ErrValidation, field, minLen, maxLen)
	}
	return nil
}

// newToken returns 32 lowercase hex characters from 16 random bytes.
func newToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// storageFailure logs a failed write and replaces it with domain.ErrStorage
// so driver details never reach the caller.
func storageFailure(ctx context.Context, log *slog.Logger, op string, err error) error {
	log.ErrorContext(ctx, "storage operation failed", "op", op, "err", err)
	return fmt.Errorf("%s: %w", op, domain.ErrStorage)
}

// lookupFailure passes ErrNotFound through wrapped with op and reports any
// other repo error as a storage failure.
func lookupFailure(ctx context.Context, log *slog.Logger, op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return storageFailure(ctx, log, op, err)
}
