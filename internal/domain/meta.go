package domain

// Bag is a free-form attribute map. Values are strings, numbers or booleans.
type Bag map[string]any

// ItemMeta holds the category-specific attributes of an item.
//
// Address, Time and Notes apply to every category. At most one of the variant
// pointers is set, matching the item's category; categories without a variant
// (itinerary, restaurant, ticket, reference, notes) leave all of them nil.
// Extra carries keys this version does not recognise so they survive a
// decode/encode cycle.
type ItemMeta struct {
	Address string
	Time    string // free-form time of day, e.g. "09:30"
	Notes   string

	Activity  *ActivityMeta
	Flight    *FlightMeta
	Hotel     *HotelMeta
	Transport *TransportMeta

	Extra Bag
}

// ActivityMeta describes what an activity needs besides the visit itself.
// TicketCost and TransportCost are minor units.
type ActivityMeta struct {
	NeedsTicket    bool
	TicketURL      string
	TicketCost     *int64
	NeedsTransport bool
	TransportURL   string
	TransportCost  *int64
	Uber           bool
	Walk           bool
}

// FlightMeta describes a flight leg and its optional connection.
type FlightMeta struct {
	Origin             string
	Destination        string
	Company            string
	Duration           string
	HasConnection      bool
	ConnectionPlace    string
	ConnectionDuration string
}

// HotelMeta keeps the stay figures exactly as entered.
type HotelMeta struct {
	Nights     string
	DailyValue string
}

// TransportMeta describes ground transport, including car rentals.
// CarDaily and CarDays are kept as entered.
type TransportMeta struct {
	Type        string
	Duration    string
	Link        string
	IsCarRental bool
	CarDaily    string
	CarDays     string
}

// IsZero reports whether no attribute is set.
func (m ItemMeta) IsZero() bool {
	return m.Address == "" && m.Time == "" && m.Notes == "" &&
		m.Activity == nil && m.Flight == nil && m.Hotel == nil && m.Transport == nil &&
		len(m.Extra) == 0
}
