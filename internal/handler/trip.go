package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/meta"
	"github.com/pkordes/trip-planner/internal/money"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripRequest is the body of POST /trips and PUT /trips/{token}.
// Either EndDate or DurationDays must be present.
type TripRequest struct {
	Title        string              `json:"title"`
	Destination  string              `json:"destination"`
	StartDate    openapi_types.Date  `json:"start_date"`
	EndDate      *openapi_types.Date `json:"end_date,omitempty"`
	DurationDays *int                `json:"duration_days,omitempty"`
	Currency     string              `json:"currency,omitempty"`
}

// Trip is the JSON representation of a trip.
type Trip struct {
	Token             string             `json:"token"`
	Title             string             `json:"title"`
	Destination       string             `json:"destination"`
	StartDate         openapi_types.Date `json:"start_date"`
	EndDate           openapi_types.Date `json:"end_date"`
	Currency          string             `json:"currency"`
	CreatedAt         time.Time          `json:"created_at"`
	ShareURL          string             `json:"share_url"`
	GoogleCalendarURL string             `json:"google_calendar_url"`
}

// Money is an amount in minor units together with its display form.
type Money struct {
	Minor   int64  `json:"minor"`
	Display string `json:"display"`
}

// Item is the JSON representation of an item. Meta uses the storage keys.
type Item struct {
	ID        uuid.UUID           `json:"id"`
	Category  string              `json:"category"`
	Title     string              `json:"title"`
	Date      *openapi_types.Date `json:"date,omitempty"`
	URL       string              `json:"url,omitempty"`
	Cost      *Money              `json:"cost,omitempty"`
	Notes     string              `json:"notes,omitempty"`
	Meta      domain.Bag          `json:"meta,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// Group lists the items of one category.
type Group struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Items    []Item `json:"items"`
	Total    Money  `json:"total"`
}

// Day lists the activities of one date.
type Day struct {
	Date  openapi_types.Date `json:"date"`
	Items []Item             `json:"items"`
}

// TripView is the body of GET /trips/{token}.
type TripView struct {
	Trip         Trip          `json:"trip"`
	Groups       []Group       `json:"groups"`
	Days         []Day         `json:"days"`
	Total        Money         `json:"total"`
	PerPerson    Money         `json:"per_person"`
	Participants []Participant `json:"participants"`
}

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	created, err := s.trips.Create(r.Context(), requestToInput(body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.Header().Set("Location", "/trips/"+created.Token)
	writeJSON(w, http.StatusCreated, s.tripToResponse(r, created))
}

// GetTrip handles GET /trips/{token}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	v, err := s.trips.View(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, s.viewToResponse(r, v))
}

// UpdateTrip handles PUT /trips/{token}.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	var body TripRequest
	if !s.decodeJSON(w, r, &body) {
		return
	}

	updated, err := s.trips.Update(r.Context(), chi.URLParam(r, "token"), requestToInput(body))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeJSON(w, http.StatusOK, s.tripToResponse(r, updated))
}

// DeleteTrip handles DELETE /trips/{token}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.Delete(r.Context(), chi.URLParam(r, "token")); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// --- mapping helpers --------------------------------------------------------

// requestToInput converts a TripRequest body into a service.TripInput.
func requestToInput(body TripRequest) service.TripInput {
	in := service.TripInput{
		Title:        body.Title,
		Destination:  body.Destination,
		StartDate:    body.StartDate.Time,
		DurationDays: body.DurationDays,
		Currency:     body.Currency,
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		in.EndDate = &ed
	}
	return in
}

func (s *Server) tripToResponse(r *http.Request, t domain.Trip) Trip {
	share := s.shareURL(r, t.Token)
	return Trip{
		Token:             t.Token,
		Title:             t.Title,
		Destination:       t.Destination,
		StartDate:         openapi_types.Date{Time: t.StartDate},
		EndDate:           openapi_types.Date{Time: t.EndDate},
		Currency:          t.Currency,
		CreatedAt:         t.CreatedAt,
		ShareURL:          share,
		GoogleCalendarURL: service.GoogleCalendarLink(t, share),
	}
}

func (s *Server) viewToResponse(r *http.Request, v domain.TripView) TripView {
	resp := TripView{
		Trip:         s.tripToResponse(r, v.Trip),
		Groups:       []Group{},
		Days:         make([]Day, 0, len(v.Days)),
		Total:        toMoney(v.Total),
		PerPerson:    toMoney(v.PerPerson),
		Participants: make([]Participant, 0, len(v.Participants)),
	}
	for _, c := range v.CategoriesPresent() {
		g := Group{
			Category: string(c),
			Label:    c.Label(),
			Items:    itemsToResponse(v.Groups[c]),
			Total:    toMoney(v.TotalByCategory[c]),
		}
		resp.Groups = append(resp.Groups, g)
	}
	for _, d := range v.Days {
		resp.Days = append(resp.Days, Day{Date: openapi_types.Date{Time: d.Date}, Items: itemsToResponse(d.Items)})
	}
	for _, p := range v.Participants {
		resp.Participants = append(resp.Participants, participantToResponse(p))
	}
	return resp
}

func itemsToResponse(items []domain.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		out = append(out, itemToResponse(it))
	}
	return out
}

func itemToResponse(it domain.Item) Item {
	resp := Item{
		ID:        it.ID,
		Category:  string(it.Category),
		Title:     it.Title,
		URL:       it.URL,
		Notes:     it.Notes,
		CreatedAt: it.CreatedAt,
	}
	if it.Date != nil {
		resp.Date = &openapi_types.Date{Time: *it.Date}
	}
	if it.Cost != nil {
		m := toMoney(*it.Cost)
		resp.Cost = &m
	}
	if bag := meta.ToBag(it.Meta); len(bag) > 0 {
		resp.Meta = bag
	}
	return resp
}

func toMoney(minor int64) Money {
	return Money{Minor: minor, Display: money.Format(minor)}
}
