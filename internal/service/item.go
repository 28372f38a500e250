package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/money"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ItemSubmission is a raw, flat item entry as typed by a user. Every text
// field may be empty; only the fields relevant to Category are read.
type ItemSubmission struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Date     string `json:"date"` // YYYY-MM-DD
	URL      string `json:"url"`
	Cost     string `json:"cost"`

	Place   string `json:"place"`
	Address string `json:"address"`
	Time    string `json:"time"`
	Notes   string `json:"notes"`

	NeedsTicket    bool   `json:"needs_ticket"`
	TicketURL      string `json:"ticket_url"`
	TicketCost     string `json:"ticket_cost"`
	NeedsTransport bool   `json:"needs_transport"`
	TransportURL   string `json:"transport_url"`
	TransportCost  string `json:"transport_cost"`
	Uber           bool   `json:"uber"`
	Walk           bool   `json:"walk"`

	Origin             string `json:"origin"`
	Destination        string `json:"destination"`
	Company            string `json:"company"`
	FlightDuration     string `json:"flight_duration"`
	HasConnection      bool   `json:"has_connection"`
	ConnectionPlace    string `json:"connection_place"`
	ConnectionDuration string `json:"connection_duration"`

	Nights     string `json:"nights"`
	DailyValue string `json:"daily_value"`

	TransportType     string `json:"transport_type"`
	TransportDuration string `json:"transport_duration"`
	TransportLink     string `json:"transport_link"`
	IsCarRental       bool   `json:"is_car_rental"`
	CarDaily          string `json:"car_daily"`
	CarDays           string `json:"car_days"`
}

// SubmissionFromForm reads a submission from HTML form values. Form keys match
// the JSON field names. A checkbox counts as checked when its key is present,
// whatever its value.
func SubmissionFromForm(v url.Values) ItemSubmission {
	return ItemSubmission{
		Category: v.Get("category"),
		Title:    v.Get("title"),
		Date:     v.Get("date"),
		URL:      v.Get("url"),
		Cost:     v.Get("cost"),

		Place:   v.Get("place"),
		Address: v.Get("address"),
		Time:    v.Get("time"),
		Notes:   v.Get("notes"),

		NeedsTicket:    v.Has("needs_ticket"),
		TicketURL:      v.Get("ticket_url"),
		TicketCost:     v.Get("ticket_cost"),
		NeedsTransport: v.Has("needs_transport"),
		TransportURL:   v.Get("transport_url"),
		TransportCost:  v.Get("transport_cost"),
		Uber:           v.Has("uber"),
		Walk:           v.Has("walk"),

		Origin:             v.Get("origin"),
		Destination:        v.Get("destination"),
		Company:            v.Get("company"),
		FlightDuration:     v.Get("flight_duration"),
		HasConnection:      v.Has("has_connection"),
		ConnectionPlace:    v.Get("connection_place"),
		ConnectionDuration: v.Get("connection_duration"),

		Nights:     v.Get("nights"),
		DailyValue: v.Get("daily_value"),

		TransportType:     v.Get("transport_type"),
		TransportDuration: v.Get("transport_duration"),
		TransportLink:     v.Get("transport_link"),
		IsCarRental:       v.Has("is_car_rental"),
		CarDaily:          v.Get("car_daily"),
		CarDays:           v.Get("car_days"),
	}
}

// ItemService implements item ingestion and removal.
type ItemService struct {
	trips repo.TripRepo
	items repo.ItemRepo
	log   *slog.Logger
}

// NewItemService constructs an ItemService backed by the provided repos.
// A nil logger falls back to slog.Default().
func NewItemService(trips repo.TripRepo, items repo.ItemRepo, log *slog.Logger) *ItemService {
	if log == nil {
		log = slog.Default()
	}
	return &ItemService{trips: trips, items: items, log: log}
}

// Add normalizes a submission and persists exactly one item on the trip.
//
// Returns domain.ErrNotFound if no trip has that token, domain.ErrValidation
// with a readable reason for bad input, and domain.ErrStorage if the write
// failed. Nothing is stored unless the whole submission is valid.
func (s *ItemService) Add(ctx context.Context, token string, sub ItemSubmission) (domain.Item, error) {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return domain.Item{}, lookupFailure(ctx, s.log, "service.ItemService.Add", err)
	}

	item, err := normalizeItem(trip, sub)
	if err != nil {
		return domain.Item{}, err
	}

	created, err := s.items.Create(ctx, item)
	if err != nil {
		return domain.Item{}, storageFailure(ctx, s.log, "service.ItemService.Add", err)
	}
	return created, nil
}

// Delete removes an item from the trip. Deleting an item that does not exist
// under the trip is not an error. Returns domain.ErrNotFound only when the
// trip itself is unknown.
func (s *ItemService) Delete(ctx context.Context, token string, itemID uuid.UUID) error {
	trip, err := s.trips.GetByToken(ctx, token)
	if err != nil {
		return lookupFailure(ctx, s.log, "service.ItemService.Delete", err)
	}
	if err := s.items.Delete(ctx, trip.ID, itemID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return lookupFailure(ctx, s.log, "service.ItemService.Delete", err)
	}
	return nil
}

// normalizeItem applies the ingestion rules to a submission.
func normalizeItem(trip domain.Trip, sub ItemSubmission) (domain.Item, error) {
	category, ok := domain.ParseCategory(strings.TrimSpace(sub.Category))
	if !ok {
		return domain.Item{}, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, sub.Category)
	}

	item := domain.Item{
		TripID:   trip.ID,
		Category: category,
		URL:      strings.TrimSpace(sub.URL),
		Notes:    strings.TrimSpace(sub.Notes),
	}

	if raw := strings.TrimSpace(sub.Date); raw != "" {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return domain.Item{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD", domain.ErrValidation, raw)
		}
		if !trip.Contains(d) {
			return domain.Item{}, fmt.Errorf("%w: date %s is outside the trip (%s to %s)", domain.ErrValidation,
				d.Format(time.DateOnly), trip.StartDate.Format(time.DateOnly), trip.EndDate.Format(time.DateOnly))
		}
		item.Date = &d
	}

	cost, err := money.ParseAmount(sub.Cost)
	if err != nil {
		return domain.Item{}, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	item.Cost = cost

	item.Meta = domain.ItemMeta{
		Address: strings.TrimSpace(sub.Address),
		Time:    strings.TrimSpace(sub.Time),
		Notes:   item.Notes,
	}

	switch category {
	case domain.CategoryActivity:
		a, err := activityMeta(sub)
		if err != nil {
			return domain.Item{}, err
		}
		item.Meta.Activity = a
	case domain.CategoryFlight:
		item.Meta.Flight = &domain.FlightMeta{
			Origin:             strings.TrimSpace(sub.Origin),
			Destination:        strings.TrimSpace(sub.Destination),
			Company:            strings.TrimSpace(sub.Company),
			Duration:           strings.TrimSpace(sub.FlightDuration),
			HasConnection:      sub.HasConnection,
			ConnectionPlace:    strings.TrimSpace(sub.ConnectionPlace),
			ConnectionDuration: strings.TrimSpace(sub.ConnectionDuration),
		}
	case domain.CategoryHotel:
		item.Meta.Hotel = &domain.HotelMeta{
			Nights:     strings.TrimSpace(sub.Nights),
			DailyValue: strings.TrimSpace(sub.DailyValue),
		}
	case domain.CategoryTransport:
		tr := &domain.TransportMeta{
			Type:        strings.TrimSpace(sub.TransportType),
			Duration:    strings.TrimSpace(sub.TransportDuration),
			Link:        strings.TrimSpace(sub.TransportLink),
			IsCarRental: sub.IsCarRental,
			CarDaily:    strings.TrimSpace(sub.CarDaily),
			CarDays:     strings.TrimSpace(sub.CarDays),
		}
		item.Meta.Transport = tr
		if item.Cost == nil {
			item.Cost = carRentalCost(tr.CarDaily, tr.CarDays)
		}
	}

	item.Title = strings.TrimSpace(sub.Title)
	if item.Title == "" {
		item.Title = fallbackTitle(category, sub)
	}
	if utf8.RuneCountInString(item.Title) > 200 {
		return domain.Item{}, fmt.Errorf("%w: title must be at most 200 characters", domain.ErrValidation)
	}
	return item, nil
}

func activityMeta(sub ItemSubmission) (*domain.ActivityMeta, error) {
	ticketCost, err := money.ParseAmount(sub.TicketCost)
	if err != nil {
		return nil, fmt.Errorf("%w: Ticket: %v", domain.ErrValidation, err)
	}
	transportCost, err := money.ParseAmount(sub.TransportCost)
	if err != nil {
		return nil, fmt.Errorf("%w: Transport: %v", domain.ErrValidation, err)
	}
	return &domain.ActivityMeta{
		NeedsTicket:    sub.NeedsTicket,
		TicketURL:      strings.TrimSpace(sub.TicketURL),
		TicketCost:     ticketCost,
		NeedsTransport: sub.NeedsTransport,
		TransportURL:   strings.TrimSpace(sub.TransportURL),
		TransportCost:  transportCost,
		Uber:           sub.Uber,
		Walk:           sub.Walk,
	}, nil
}

// carRentalCost derives daily × days for a rental entered without a total.
// Any value that does not parse yields nil; the item is still saved.
func carRentalCost(daily, days string) *int64 {
	if daily == "" || days == "" {
		return nil
	}
	rate, err := money.ParseAmount(daily)
	if err != nil || rate == nil {
		return nil
	}
	n, err := strconv.ParseInt(days, 10, 64)
	if err != nil || n <= 0 {
		return nil
	}
	total, ok := money.MulQuantity(*rate, n)
	if !ok {
		return nil
	}
	return &total
}

func fallbackTitle(category domain.Category, sub ItemSubmission) string {
	place := strings.TrimSpace(sub.Place)
	switch category {
	case domain.CategoryActivity:
		return firstNonEmpty(place, "Activity")
	case domain.CategoryRestaurant:
		return firstNonEmpty(place, "Restaurant")
	case domain.CategoryHotel:
		return firstNonEmpty(place, "Hotel")
	case domain.CategoryFlight:
		origin, dest := strings.TrimSpace(sub.Origin), strings.TrimSpace(sub.Destination)
		if origin == "" && dest == "" {
			return "Flight"
		}
		return strings.Trim(origin+" → "+dest, " →")
	case domain.CategoryTransport:
		return firstNonEmpty(strings.TrimSpace(sub.TransportType), "Transport")
	}
	return "Item"
}

func firstNonEmpty(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
