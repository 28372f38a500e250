package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_token", "trip_title", "trip_destination", "trip_start_date", "trip_end_date", "currency",
	"category", "title", "date", "url", "cost", "notes",
}

// ExportRow is the JSON form of one flat export row.
type ExportRow struct {
	TripToken       string `json:"trip_token"`
	TripTitle       string `json:"trip_title"`
	TripDestination string `json:"trip_destination"`
	TripStartDate   string `json:"trip_start_date"`
	TripEndDate     string `json:"trip_end_date"`
	Currency        string `json:"currency"`
	Category        string `json:"category,omitempty"`
	Title           string `json:"title,omitempty"`
	Date            string `json:"date,omitempty"`
	URL             string `json:"url,omitempty"`
	Cost            string `json:"cost,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// GetExport handles GET /trips/{token}/export.
// It returns one row per item. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be csv or json"))
		return
	}

	token := chi.URLParam(r, "token")
	rows, err := s.export.Rows(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}

	if format == "csv" {
		writeCSV(w, token, rows)
		return
	}
	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ExportRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV with a header line.
func writeCSV(w http.ResponseWriter, token string, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write([]string{
			r.TripToken, r.TripTitle, r.TripDestination, r.TripStartDate, r.TripEndDate, r.Currency,
			r.Category, r.Title, r.Date, r.URL, r.Cost, r.Notes,
		})
	}
	cw.Flush()

	writeFile(w, "text/csv; charset=utf-8", "trip-"+token+".csv", buf.Bytes())
}

// GetCalendar handles GET /trips/{token}/calendar.ics.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	ics, err := s.export.Calendar(r.Context(), token)
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeFile(w, "text/calendar; charset=utf-8", "trip-"+token+".ics", ics)
}

// GetItinerary handles GET /trips/{token}/itinerary.pdf.
// The document is rendered fully before anything is sent so that a failure
// still produces a JSON error.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	var buf bytes.Buffer
	if err := s.export.Itinerary(r.Context(), &buf, token, s.shareURL(r, token)); err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	writeFile(w, "application/pdf", "itinerary-"+token+".pdf", buf.Bytes())
}

// GetQRCode handles GET /trips/{token}/qr.png: a QR code of the share link.
func (s *Server) GetQRCode(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.GetByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	png, err := service.ShareQR(s.shareURL(r, trip.Token))
	if err != nil {
		s.writeError(w, r, err, "trip")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(png)
}

// writeFile sends body as a download named filename.
func writeFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck
	w.Write(body)
}
