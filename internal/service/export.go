package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/money"
)

// viewer is the slice of TripService the exports need.
type viewer interface {
	View(ctx context.Context, token string) (domain.TripView, error)
}

// ExportService renders a trip into downloadable formats.
type ExportService struct {
	trips viewer
}

// NewExportService constructs an ExportService that reads trips through v.
func NewExportService(v viewer) *ExportService {
	return &ExportService{trips: v}
}

// Rows returns the flat export of one trip.
func (s *ExportService) Rows(ctx context.Context, token string) ([]domain.ExportRow, error) {
	v, err := s.trips.View(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Rows: %w", err)
	}
	return ExportRows(v), nil
}

// Calendar returns the trip as an iCalendar document.
func (s *ExportService) Calendar(ctx context.Context, token string) ([]byte, error) {
	v, err := s.trips.View(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	out, err := CalendarICS(v)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Calendar: %w", err)
	}
	return out, nil
}

// ExportRows flattens a view into one row per item, categories in display
// order and items in group order. A trip with no items yields one row with
// empty item fields.
func ExportRows(v domain.TripView) []domain.ExportRow {
	base := domain.ExportRow{
		TripToken:       v.Trip.Token,
		TripTitle:       v.Trip.Title,
		TripDestination: v.Trip.Destination,
		TripStartDate:   v.Trip.StartDate.Format(time.DateOnly),
		TripEndDate:     v.Trip.EndDate.Format(time.DateOnly),
		Currency:        v.Trip.Currency,
	}

	var rows []domain.ExportRow
	for _, c := range v.CategoriesPresent() {
		for _, it := range v.Groups[c] {
			row := base
			row.Category = string(it.Category)
			row.Title = it.Title
			if it.Date != nil {
				row.Date = it.Date.Format(time.DateOnly)
			}
			row.URL = it.URL
			if it.Cost != nil {
				row.Cost = money.Decimal(*it.Cost)
			}
			row.Notes = it.Notes
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, base)
	}
	return rows
}

// floatingLayout is an iCalendar local time without a zone: calendar apps
// show it at the same wall-clock time wherever the reader is.
const floatingLayout = "20060102T150405"

// CalendarICS renders the trip as one event spanning the whole trip
// (09:00 on the first day to 20:00 on the last) plus a one-hour event at
// 10:00 for every dated item.
func CalendarICS(v domain.TripView) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, "-//Trip Planner//Trip Calendar//EN")

	stamp := v.Trip.CreatedAt.UTC()

	main := ical.NewEvent()
	main.Props.SetText(ical.PropUID, v.Trip.Token+"@trip-planner")
	main.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	setFloating(main.Props, ical.PropDateTimeStart, atClock(v.Trip.StartDate, 9))
	setFloating(main.Props, ical.PropDateTimeEnd, atClock(v.Trip.EndDate, 20))
	main.Props.SetText(ical.PropSummary, v.Trip.Title+" - "+v.Trip.Destination)
	main.Props.SetText(ical.PropDescription, "Trip created in Trip Planner")
	cal.Children = append(cal.Children, main.Component)

	for _, c := range v.CategoriesPresent() {
		for _, it := range v.Groups[c] {
			if it.Date == nil {
				continue
			}
			start := atClock(*it.Date, 10)

			e := ical.NewEvent()
			e.Props.SetText(ical.PropUID, it.ID.String()+"@trip-planner")
			e.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
			setFloating(e.Props, ical.PropDateTimeStart, start)
			setFloating(e.Props, ical.PropDateTimeEnd, start.Add(time.Hour))
			e.Props.SetText(ical.PropSummary, "["+calendarLabel(it.Category)+"] "+it.Title)
			e.Props.SetText(ical.PropDescription, joinNonEmpty("\n\n", it.URL, it.Notes))
			cal.Children = append(cal.Children, e.Component)
		}
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

// GoogleCalendarLink returns a link that pre-fills a Google Calendar event
// covering the whole trip, with the share URL in the details.
func GoogleCalendarLink(trip domain.Trip, shareURL string) string {
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", trip.Title+" - "+trip.Destination)
	params.Set("dates", trip.StartDate.Format("20060102")+"/"+trip.EndDate.Format("20060102"))
	params.Set("details", "Planning: "+shareURL)
	return "https://calendar.google.com/calendar/render?" + params.Encode()
}

func setFloating(props ical.Props, name string, t time.Time) {
	p := ical.NewProp(name)
	p.Value = t.Format(floatingLayout)
	props[name] = []ical.Prop{*p}
}

func atClock(day time.Time, hour int) time.Time {
	return domain.DateOnly(day).Add(time.Duration(hour) * time.Hour)
}

// calendarLabel is the short tag shown in calendar event titles.
func calendarLabel(c domain.Category) string {
	switch c {
	case domain.CategoryFlight:
		return "Flight"
	case domain.CategoryHotel:
		return "Hotel"
	case domain.CategoryItinerary:
		return "Itinerary"
	case domain.CategoryActivity:
		return "Activity"
	case domain.CategoryTicket:
		return "Ticket"
	case domain.CategoryReference:
		return "Reference"
	}
	return strings.ToUpper(string(c))
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
