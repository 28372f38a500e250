// Package handler implements the HTTP handlers for the Trip Planner API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// TripServicer defines the business operations the trip handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, in service.TripInput) (domain.Trip, error)
	GetByToken(ctx context.Context, token string) (domain.Trip, error)
	Update(ctx context.Context, token string, in service.TripInput) (domain.Trip, error)
	Delete(ctx context.Context, token string) error
	View(ctx context.Context, token string) (domain.TripView, error)
}

// ItemServicer defines the item operations the handlers depend on.
type ItemServicer interface {
	Add(ctx context.Context, token string, sub service.ItemSubmission) (domain.Item, error)
	Delete(ctx context.Context, token string, itemID uuid.UUID) error
}

// ParticipantServicer defines the participant operations the handlers depend on.
type ParticipantServicer interface {
	Join(ctx context.Context, token, name, email string) (domain.Participant, error)
	Remove(ctx context.Context, token string, participantID uuid.UUID) error
}

// Exporter renders a trip into downloadable formats.
type Exporter interface {
	Rows(ctx context.Context, token string) ([]domain.ExportRow, error)
	Calendar(ctx context.Context, token string) ([]byte, error)
	Itinerary(ctx context.Context, w io.Writer, token, shareURL string) error
}

// Pinger reports whether the store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options holds the optional settings of a Server.
type Options struct {
	// BaseURL is the public origin used in share links, e.g.
	// "https://trips.example.com". Empty means derive it from each request.
	BaseURL string

	// Health is pinged by GET /healthz. Nil means always healthy.
	Health Pinger

	// Logger receives unexpected errors. Nil means slog.Default().
	Logger *slog.Logger
}

// Server holds the dependencies of every handler.
// Methods are in domain-specific files but all operate on this struct.
type Server struct {
	trips        TripServicer
	items        ItemServicer
	participants ParticipantServicer
	export       Exporter
	opts         Options
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, items ItemServicer, participants ParticipantServicer, export Exporter, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		trips:        trips,
		items:        items,
		participants: participants,
		export:       export,
		opts:         opts,
		log:          log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler(health Pinger) *Server {
	return NewServer(nil, nil, nil, nil, Options{Health: health})
}

// Routes returns a chi router with every endpoint registered.
// Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)

		r.Route("/{token}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Post("/items", s.AddItem)
			r.Delete("/items/{itemId}", s.DeleteItem)

			r.Post("/participants", s.JoinTrip)
			r.Delete("/participants/{participantId}", s.RemoveParticipant)

			r.Get("/calendar.ics", s.GetCalendar)
			r.Get("/export", s.GetExport)
			r.Get("/itinerary.pdf", s.GetItinerary)
			r.Get("/qr.png", s.GetQRCode)
		})
	})
	return r
}

// shareURL is the link that gives access to the trip.
func (s *Server) shareURL(r *http.Request, token string) string {
	base := strings.TrimRight(s.opts.BaseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/trips/" + token
}
