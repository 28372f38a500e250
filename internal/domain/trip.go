// Package domain contains the core data types for the Trip Planner application.
// This package has no dependencies on other internal packages and is imported
// by every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied when a trip is created without a currency code.
const DefaultCurrency = "BRL"

// Trip is the top-level aggregate; items and participants belong to a trip.
// Token is the shareable handle: anyone holding it can read and edit the trip.
// It is generated once at creation and never changes.
type Trip struct {
	ID          uuid.UUID
	Token       string
	Title       string
	Destination string
	StartDate   time.Time // date only, UTC midnight
	EndDate     time.Time // inclusive
	Currency    string
	CreatedAt   time.Time
}

// Contains reports whether d falls within [StartDate, EndDate].
// Both bounds are inclusive and only the calendar date is compared.
func (t Trip) Contains(d time.Time) bool {
	day := DateOnly(d)
	return !day.Before(DateOnly(t.StartDate)) && !day.After(DateOnly(t.EndDate))
}

// Days is the length of the trip in calendar days, counting both ends.
func (t Trip) Days() int {
	return int(DateOnly(t.EndDate).Sub(DateOnly(t.StartDate)).Hours()/24) + 1
}

// DateOnly truncates t to midnight UTC of its calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
