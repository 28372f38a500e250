package domain

import "time"

// TripView is the derived, read-only view of a trip built by the aggregator.
// It is recomputed on every read and never stored.
type TripView struct {
	Trip Trip

	// Groups holds only categories that have at least one item.
	Groups map[Category][]Item

	// Days is the activity schedule: one entry per date that has a dated
	// activity, in ascending date order.
	Days []DayPlan

	// TotalByCategory has an entry for every category in Groups; items
	// without a cost count as zero.
	TotalByCategory map[Category]int64
	Total           int64

	Participants []Participant
	PerPerson    int64
}

// DayPlan lists the activities of one calendar day.
type DayPlan struct {
	Date  time.Time
	Items []Item
}

// CategoriesPresent returns the categories that have items, in the fixed
// display order of Categories.
func (v TripView) CategoriesPresent() []Category {
	var out []Category
	for _, c := range Categories {
		if len(v.Groups[c]) > 0 {
			out = append(out, c)
		}
	}
	return out
}
