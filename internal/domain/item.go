package domain

import (
	"time"

	"github.com/google/uuid"
)

// Item is a single planned entry on a trip: a flight, a hotel stay, an
// activity, a reference link, etc.
//
// Cost is counted in minor currency units (cents) and is nil when no cost was
// entered. Date is nil for undated items.
type Item struct {
	ID        uuid.UUID
	TripID    uuid.UUID
	Category  Category
	Title     string
	Date      *time.Time
	URL       string
	Cost      *int64
	Notes     string
	Meta      ItemMeta
	CreatedAt time.Time
}

// HasCost reports whether a cost was recorded for the item.
func (i Item) HasCost() bool {
	return i.Cost != nil
}
