package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ParticipantService manages the people a trip's costs are split between.
type ParticipantService struct {
	trips        repo.TripRepo
	participants repo.ParticipantRepo
	log          *slog.Logger
}

// NewParticipantService constructs a ParticipantService backed by the provided repos.
// A nil logger falls back to slog.Default().
func NewParticipantService(trips repo.TripRepo, participants repo.ParticipantRepo, log *slog.Logger) *ParticipantService {
	if log == nil {
		log = slog.Default()
	}
	return &ParticipantService{trips: trips, participants: participants, log: log}
}

// Join adds a participant to the trip. The email is trimmed and lower-cased;
// joining again with an email already on the trip renames that participant
// instead of adding a second one. Participants without an email are always
// added.
func (s *ParticipantService) Join(ctx context.Context, token, name, email string) (domain.Participant, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.Participant{}, lookupFailure(ctx, s.log, "service.ParticipantService.Join", err)
	}

	name = strings.TrimSpace(name)
	if err := checkLength("name", name, 2, 120); err != nil {
		return domain.Participant{}, err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if utf8.RuneCountInString(email) > 200 {
		return domain.Participant{}, fmt.Errorf("%w: email must be at most 200 characters", domain.ErrValidation)
	}

	p, err := s.participants.Upsert(ctx, domain.Participant{TripID: trip.ID, Name: name, Email: email})
	if err != nil {
		return domain.Participant{}, storageFailure(ctx, s.log, "service.ParticipantService.Join", err)
	}
	return p, nil
}

// Remove deletes a participant from the trip. Removing someone who is not on
// the trip is not an error.
func (s *ParticipantService) Remove(ctx context.Context, token string, participantID uuid.UUID) error {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return lookupFailure(ctx, s.log, "service.ParticipantService.Remove", err)
	}
	if err := s.participants.Delete(ctx, trip.ID, participantID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return lookupFailure(ctx, s.log, "service.ParticipantService.Remove", err)
	}
	return nil
}
