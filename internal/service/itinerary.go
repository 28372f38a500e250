package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/money"
)

// qrSize is the edge length in pixels of generated QR codes.
const qrSize = 256

// ShareQR returns a PNG QR code encoding the trip's share URL.
func ShareQR(shareURL string) ([]byte, error) {
	png, err := qrcode.Encode(shareURL, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Itinerary writes a printable PDF of the trip to w.
func (s *ExportService) Itinerary(ctx context.Context, w io.Writer, token, shareURL string) error {
	v, err := s.trips.View(ctx, token)
	if err != nil {
		return fmt.Errorf("service.ExportService.Itinerary: %w", err)
	}
	if err := ItineraryPDF(w, v, shareURL); err != nil {
		return fmt.Errorf("service.ExportService.Itinerary: %w", err)
	}
	return nil
}

// ItineraryPDF renders the view as an A4 document: trip header with a QR code
// of the share link, one section per category, cost totals and the share per
// participant.
func ItineraryPDF(w io.Writer, v domain.TripView, shareURL string) error {
	qrPNG, err := ShareQR(shareURL)
	if err != nil {
		return err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252; translate so accented names print correctly.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(v.Trip.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(v.Trip.Title+" - "+v.Trip.Destination))
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, v.Trip.StartDate.Format(time.DateOnly)+" to "+v.Trip.EndDate.Format(time.DateOnly))
	pdf.Ln(8)
	pdf.Cell(0, 8, tr(shareURL))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 35, 35, false, imageOpts, 0, "")
	pdf.SetY(50)

	for _, c := range v.CategoriesPresent() {
		pdf.SetFont("Arial", "B", 13)
		pdf.Cell(0, 9, tr(c.Label()))
		pdf.Ln(9)
		pdf.SetFont("Arial", "", 10)
		for _, it := range v.Groups[c] {
			day := "-"
			if it.Date != nil {
				day = it.Date.Format(time.DateOnly)
			}
			cost := ""
			if it.Cost != nil {
				cost = v.Trip.Currency + " " + money.Format(*it.Cost)
			}
			pdf.CellFormat(28, 7, day, "", 0, "L", false, 0, "")
			pdf.CellFormat(122, 7, tr(it.Title), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, cost, "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(150, 7, "Subtotal", "T", 0, "R", false, 0, "")
		pdf.CellFormat(40, 7, v.Trip.Currency+" "+money.Format(v.TotalByCategory[c]), "T", 1, "R", false, 0, "")
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(150, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, v.Trip.Currency+" "+money.Format(v.Total), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(150, 8, "Per person ("+strconv.Itoa(max(1, len(v.Participants)))+")", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, v.Trip.Currency+" "+money.Format(v.PerPerson), "", 1, "R", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
