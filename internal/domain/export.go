package domain

// ExportRow is a single row in the flat trip export.
// It is a denormalized view: one row per item, with trip fields repeated
// for every item. A trip with no items yields one row with empty item fields.
type ExportRow struct {
	// Trip fields, repeated for every item on the trip.
	TripToken       string
	TripTitle       string
	TripDestination string
	TripStartDate   string // "2006-01-02"
	TripEndDate     string // "2006-01-02"
	Currency        string

	// Item fields, zero values when the trip has no items.
	Category string
	Title    string
	Date     string // empty when undated
	URL      string
	Cost     string // formatted amount, empty when no cost
	Notes    string
}
