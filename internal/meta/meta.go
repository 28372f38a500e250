// Package meta serializes item metadata to and from the text column it is
// stored in.
//
// Metadata is advisory: decoding absent or malformed text yields empty
// metadata and never an error, so a damaged row cannot break cost totals or
// date handling.
package meta

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Storage keys. They are shared by several categories where the meaning
// matches (e.g. "duration" for flights and transport).
const (
	keyAddress            = "address"
	keyTime               = "time"
	keyNotes              = "notes"
	keyNeedsTicket        = "needs_ticket"
	keyTicketURL          = "ticket_url"
	keyTicketCost         = "ticket_cost"
	keyNeedsTransport     = "needs_transport"
	keyTransportURL       = "transport_url"
	keyTransportCost      = "transport_cost"
	keyUber               = "uber"
	keyWalk               = "walk"
	keyOrigin             = "origin"
	keyDestination        = "destination"
	keyCompany            = "company"
	keyDuration           = "duration"
	keyHasConnection      = "has_connection"
	keyConnectionPlace    = "connection_place"
	keyConnectionDuration = "connection_duration"
	keyNights             = "nights"
	keyDailyValue         = "daily_value"
	keyTransportType      = "transport_type"
	keyIsCarRental        = "is_car_rental"
	keyCarDaily           = "car_daily"
	keyCarDays            = "car_days"
)

// EncodeBag serializes b as JSON text. An empty bag encodes to "".
func EncodeBag(b domain.Bag) (string, error) {
	if len(b) == 0 {
		return "", nil
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// DecodeBag parses text produced by EncodeBag. Empty or malformed input, or
// JSON that is not an object, yields an empty non-nil bag.
// Whole numbers that fit decode as int64 without loss; other numbers decode
// as float64.
func DecodeBag(s string) domain.Bag {
	if s == "" {
		return domain.Bag{}
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var b domain.Bag
	if err := dec.Decode(&b); err != nil || b == nil || dec.More() {
		return domain.Bag{}
	}
	for k, v := range b {
		b[k] = fromJSON(v)
	}
	return b
}

// fromJSON replaces the json.Number values of a decoded value, at any depth.
func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		for i := range x {
			x[i] = fromJSON(x[i])
		}
	case map[string]any:
		for k := range x {
			x[k] = fromJSON(x[k])
		}
	}
	return v
}

// Encode flattens m into its storage text.
func Encode(m domain.ItemMeta) (string, error) {
	return EncodeBag(ToBag(m))
}

// Decode rebuilds the metadata of an item of the given category from its
// storage text. Keys that do not belong to the category land in Extra.
func Decode(category domain.Category, s string) domain.ItemMeta {
	return FromBag(category, DecodeBag(s))
}

// ToBag flattens m into a bag using the storage keys. Empty strings and nil
// costs are omitted; booleans of a present variant are always written.
func ToBag(m domain.ItemMeta) domain.Bag {
	b := domain.Bag{}
	for k, v := range m.Extra {
		b[k] = v
	}
	putString(b, keyAddress, m.Address)
	putString(b, keyTime, m.Time)
	putString(b, keyNotes, m.Notes)

	if a := m.Activity; a != nil {
		b[keyNeedsTicket] = a.NeedsTicket
		putString(b, keyTicketURL, a.TicketURL)
		putCost(b, keyTicketCost, a.TicketCost)
		b[keyNeedsTransport] = a.NeedsTransport
		putString(b, keyTransportURL, a.TransportURL)
		putCost(b, keyTransportCost, a.TransportCost)
		b[keyUber] = a.Uber
		b[keyWalk] = a.Walk
	}
	if f := m.Flight; f != nil {
		putString(b, keyOrigin, f.Origin)
		putString(b, keyDestination, f.Destination)
		putString(b, keyCompany, f.Company)
		putString(b, keyDuration, f.Duration)
		b[keyHasConnection] = f.HasConnection
		putString(b, keyConnectionPlace, f.ConnectionPlace)
		putString(b, keyConnectionDuration, f.ConnectionDuration)
	}
	if h := m.Hotel; h != nil {
		putString(b, keyNights, h.Nights)
		putString(b, keyDailyValue, h.DailyValue)
	}
	if tr := m.Transport; tr != nil {
		putString(b, keyTransportType, tr.Type)
		putString(b, keyDuration, tr.Duration)
		putString(b, keyTicketURL, tr.Link)
		b[keyIsCarRental] = tr.IsCarRental
		putString(b, keyCarDaily, tr.CarDaily)
		putString(b, keyCarDays, tr.CarDays)
	}
	return b
}

// FromBag is the inverse of ToBag for an item of the given category.
// Values of an unexpected type are left in Extra.
func FromBag(category domain.Category, b domain.Bag) domain.ItemMeta {
	rest := domain.Bag{}
	for k, v := range b {
		rest[k] = v
	}

	m := domain.ItemMeta{
		Address: takeString(rest, keyAddress),
		Time:    takeString(rest, keyTime),
		Notes:   takeString(rest, keyNotes),
	}

	switch category {
	case domain.CategoryActivity:
		m.Activity = &domain.ActivityMeta{
			NeedsTicket:    takeBool(rest, keyNeedsTicket),
			TicketURL:      takeString(rest, keyTicketURL),
			TicketCost:     takeCost(rest, keyTicketCost),
			NeedsTransport: takeBool(rest, keyNeedsTransport),
			TransportURL:   takeString(rest, keyTransportURL),
			TransportCost:  takeCost(rest, keyTransportCost),
			Uber:           takeBool(rest, keyUber),
			Walk:           takeBool(rest, keyWalk),
		}
	case domain.CategoryFlight:
		m.Flight = &domain.FlightMeta{
			Origin:             takeString(rest, keyOrigin),
			Destination:        takeString(rest, keyDestination),
			Company:            takeString(rest, keyCompany),
			Duration:           takeString(rest, keyDuration),
			HasConnection:      takeBool(rest, keyHasConnection),
			ConnectionPlace:    takeString(rest, keyConnectionPlace),
			ConnectionDuration: takeString(rest, keyConnectionDuration),
		}
	case domain.CategoryHotel:
		m.Hotel = &domain.HotelMeta{
			Nights:     takeString(rest, keyNights),
			DailyValue: takeString(rest, keyDailyValue),
		}
	case domain.CategoryTransport:
		m.Transport = &domain.TransportMeta{
			Type:        takeString(rest, keyTransportType),
			Duration:    takeString(rest, keyDuration),
			Link:        takeString(rest, keyTicketURL),
			IsCarRental: takeBool(rest, keyIsCarRental),
			CarDaily:    takeString(rest, keyCarDaily),
			CarDays:     takeString(rest, keyCarDays),
		}
	}

	if len(rest) > 0 {
		m.Extra = rest
	}
	return m
}

func putString(b domain.Bag, key, v string) {
	if v != "" {
		b[key] = v
	}
}

func putCost(b domain.Bag, key string, v *int64) {
	if v != nil {
		b[key] = *v
	}
}

// takeString removes key from b and returns its value if it is a string.
func takeString(b domain.Bag, key string) string {
	v, ok := b[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	delete(b, key)
	return s
}

func takeBool(b domain.Bag, key string) bool {
	v, ok := b[key]
	if !ok {
		return false
	}
	x, ok := v.(bool)
	if !ok {
		return false
	}
	delete(b, key)
	return x
}

// takeCost accepts the number types produced by DecodeBag (int64, or
// float64 for a whole value written with a fraction) and by callers building
// a bag by hand (int, json.Number). Negative or fractional values are left
// in place.
func takeCost(b domain.Bag, key string) *int64 {
	v, ok := b[key]
	if !ok {
		return nil
	}
	var n int64
	switch x := v.(type) {
	case int64:
		n = x
	case int:
		n = int64(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil
		}
		n = i
	case float64:
		if x != math.Trunc(x) || x > math.MaxInt64 || x < math.MinInt64 {
			return nil
		}
		n = int64(x)
	default:
		return nil
	}
	if n < 0 {
		return nil
	}
	delete(b, key)
	return &n
}
