package domain

// Category classifies an item. The set is fixed.
type Category string

const (
	CategoryItinerary  Category = "itinerary"
	CategoryActivity   Category = "activity"
	CategoryRestaurant Category = "restaurant"
	CategoryHotel      Category = "hotel"
	CategoryFlight     Category = "flight"
	CategoryTransport  Category = "transport"
	CategoryTicket     Category = "ticket"
	CategoryReference  Category = "reference"
	CategoryNotes      Category = "notes"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryItinerary,
	CategoryActivity,
	CategoryRestaurant,
	CategoryHotel,
	CategoryFlight,
	CategoryTransport,
	CategoryTicket,
	CategoryReference,
	CategoryNotes,
}

// ParseCategory returns the Category named by s, or false if s is not one of
// the known categories.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Label returns the human-readable heading used for a category in exports.
func (c Category) Label() string {
	switch c {
	case CategoryItinerary:
		return "Itinerary"
	case CategoryActivity:
		return "Activities"
	case CategoryRestaurant:
		return "Restaurants"
	case CategoryHotel:
		return "Lodging"
	case CategoryFlight:
		return "Flights"
	case CategoryTransport:
		return "Transport"
	case CategoryTicket:
		return "Tickets"
	case CategoryReference:
		return "Links"
	case CategoryNotes:
		return "Notes"
	}
	return string(c)
}
