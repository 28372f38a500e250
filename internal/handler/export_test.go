package handler_test

import (
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

func exportRows() []domain.ExportRow {
	base := domain.ExportRow{
		TripToken: testToken, TripTitle: "Lisbon Summer", TripDestination: "Lisbon",
		TripStartDate: "2025-06-01", TripEndDate: "2025-06-10", Currency: "EUR",
	}
	hotel := base
	hotel.Category, hotel.Title, hotel.Cost = "hotel", "Hotel A", "1234.56"
	note := base
	note.Category, note.Title, note.Notes = "notes", "Packing", "sunscreen, adapter"
	return []domain.ExportRow{hotel, note}
}

func rowsExporter() *mockExporter {
	return &mockExporter{
		rows: func(_ context.Context, token string) ([]domain.ExportRow, error) {
			if token != testToken {
				return nil, domain.ErrNotFound
			}
			return exportRows(), nil
		},
	}
}

// ---- GET /trips/{token}/export ---------------------------------------------

func TestGetExport_json(t *testing.T) {
	h := newHTTPHandler(deps{export: rowsExporter()})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/export", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	rows := decode[[]handler.ExportRow](t, rec)
	require.Len(t, rows, 2)
	assert.Equal(t, "hotel", rows[0].Category)
	assert.Equal(t, "1234.56", rows[0].Cost)
	assert.Empty(t, rows[1].Cost)
}

func TestGetExport_csv(t *testing.T) {
	h := newHTTPHandler(deps{export: rowsExporter()})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/export?format=csv", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trip-"+testToken+".csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "trip_token", records[0][0])
	assert.Equal(t, "notes", records[0][11])
	assert.Equal(t, "1234.56", records[1][10])
	assert.Equal(t, "sunscreen, adapter", records[2][11])
}

func TestGetExport_badFormat_returns422(t *testing.T) {
	h := newHTTPHandler(deps{})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/export?format=xml", nil, "")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetExport_unknownTrip_returns404(t *testing.T) {
	h := newHTTPHandler(deps{export: rowsExporter()})

	rec := do(t, h, http.MethodGet, "/trips/unknown/export", nil, "")

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- calendar, itinerary, QR -----------------------------------------------

func TestGetCalendar(t *testing.T) {
	h := newHTTPHandler(deps{export: &mockExporter{
		calendar: func(_ context.Context, _ string) ([]byte, error) {
			return []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"), nil
		},
	}})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/calendar.ics", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "BEGIN:VCALENDAR"))
}

func TestGetItinerary_passesShareURL(t *testing.T) {
	var gotShare string
	h := newHTTPHandler(deps{export: &mockExporter{
		itinerary: func(_ context.Context, w io.Writer, _ string, shareURL string) error {
			gotShare = shareURL
			_, err := io.WriteString(w, "%PDF-1.3")
			return err
		},
	}})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/itinerary.pdf", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://trips.example.com/trips/"+testToken, gotShare)
	assert.Equal(t, "%PDF-1.3", rec.Body.String())
}

func TestGetItinerary_notFound_returnsJSON404(t *testing.T) {
	h := newHTTPHandler(deps{export: &mockExporter{
		itinerary: func(_ context.Context, _ io.Writer, _, _ string) error { return domain.ErrNotFound },
	}})

	rec := do(t, h, http.MethodGet, "/trips/unknown/itinerary.pdf", nil, "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestGetQRCode(t *testing.T) {
	h := newHTTPHandler(deps{trips: &mockTripServicer{
		getByToken: func(_ context.Context, _ string) (domain.Trip, error) { return tripFixture(), nil },
	}})

	rec := do(t, h, http.MethodGet, "/trips/"+testToken+"/qr.png", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}
