package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create     func(ctx context.Context, in service.TripInput) (domain.Trip, error)
	getByToken func(ctx context.Context, token string) (domain.Trip, error)
	update     func(ctx context.Context, token string, in service.TripInput) (domain.Trip, error)
	delete     func(ctx context.Context, token string) error
	view       func(ctx context.Context, token string) (domain.TripView, error)
}

func (m *mockTripServicer) Create(ctx context.Context, in service.TripInput) (domain.Trip, error) {
	return m.create(ctx, in)
}
func (m *mockTripServicer) GetByToken(ctx context.Context, token string) (domain.Trip, error) {
	return m.getByToken(ctx, token)
}
func (m *mockTripServicer) Update(ctx context.Context, token string, in service.TripInput) (domain.Trip, error) {
	return m.update(ctx, token, in)
}
func (m *mockTripServicer) Delete(ctx context.Context, token string) error {
	return m.delete(ctx, token)
}
func (m *mockTripServicer) View(ctx context.Context, token string) (domain.TripView, error) {
	return m.view(ctx, token)
}

// mockItemServicer is a test double for handler.ItemServicer.
type mockItemServicer struct {
	add    func(ctx context.Context, token string, sub service.ItemSubmission) (domain.Item, error)
	delete func(ctx context.Context, token string, itemID uuid.UUID) error
}

func (m *mockItemServicer) Add(ctx context.Context, token string, sub service.ItemSubmission) (domain.Item, error) {
	return m.add(ctx, token, sub)
}
func (m *mockItemServicer) Delete(ctx context.Context, token string, itemID uuid.UUID) error {
	return m.delete(ctx, token, itemID)
}

// mockParticipantServicer is a test double for handler.ParticipantServicer.
type mockParticipantServicer struct {
	join   func(ctx context.Context, token, name, email string) (domain.Participant, error)
	remove func(ctx context.Context, token string, id uuid.UUID) error
}

func (m *mockParticipantServicer) Join(ctx context.Context, token, name, email string) (domain.Participant, error) {
	return m.join(ctx, token, name, email)
}
func (m *mockParticipantServicer) Remove(ctx context.Context, token string, id uuid.UUID) error {
	return m.remove(ctx, token, id)
}

// mockExporter is a test double for handler.Exporter.
type mockExporter struct {
	rows      func(ctx context.Context, token string) ([]domain.ExportRow, error)
	calendar  func(ctx context.Context, token string) ([]byte, error)
	itinerary func(ctx context.Context, w io.Writer, token, shareURL string) error
}

func (m *mockExporter) Rows(ctx context.Context, token string) ([]domain.ExportRow, error) {
	return m.rows(ctx, token)
}
func (m *mockExporter) Calendar(ctx context.Context, token string) ([]byte, error) {
	return m.calendar(ctx, token)
}
func (m *mockExporter) Itinerary(ctx context.Context, w io.Writer, token, shareURL string) error {
	return m.itinerary(ctx, w, token, shareURL)
}

// compile-time checks: mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer        = (*mockTripServicer)(nil)
	_ handler.ItemServicer        = (*mockItemServicer)(nil)
	_ handler.ParticipantServicer = (*mockParticipantServicer)(nil)
	_ handler.Exporter            = (*mockExporter)(nil)
)

// ---- helpers ---------------------------------------------------------------

const testToken = "0123456789abcdef0123456789abcdef"

// deps bundles the mocks a test wires into the router. Nil fields get an
// empty mock whose methods panic if called.
type deps struct {
	trips        *mockTripServicer
	items        *mockItemServicer
	participants *mockParticipantServicer
	export       *mockExporter
	opts         handler.Options
}

// newHTTPHandler wires a Server with the given mocks into the real router.
// This mirrors exactly how main.go wires it in production.
func newHTTPHandler(d deps) http.Handler {
	if d.trips == nil {
		d.trips = &mockTripServicer{}
	}
	if d.items == nil {
		d.items = &mockItemServicer{}
	}
	if d.participants == nil {
		d.participants = &mockParticipantServicer{}
	}
	if d.export == nil {
		d.export = &mockExporter{}
	}
	if d.opts.BaseURL == "" {
		d.opts.BaseURL = "https://trips.example.com"
	}
	return handler.NewServer(d.trips, d.items, d.participants, d.export, d.opts).Routes()
}

func do(t *testing.T, h http.Handler, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tripFixture() domain.Trip {
	return domain.Trip{
		ID:          uuid.New(),
		Token:       testToken,
		Title:       "Lisbon Summer",
		Destination: "Lisbon",
		StartDate:   date(2025, 6, 1),
		EndDate:     date(2025, 6, 10),
		Currency:    "EUR",
		CreatedAt:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func ptr[T any](v T) *T { return &v }
