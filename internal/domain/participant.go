package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is a person sharing the trip's costs.
// Email is optional; when present it is lower-cased and unique within a trip.
type Participant struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Name      string
	Email     string // empty when not provided
	CreatedAt time.Time
}
