package ticket

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Seat is one line of a ticket
type Seat struct {
	RowID         int64
	SeatNumber    string
	Class         string
	Status        string
	PassengerName string
	Fare          float64
}

// Ticket is everything printed for one booking reference
type Ticket struct {
	BookingID        string
	BookingTime      time.Time
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	Seats            []Seat
}

// FileName is the download name of a booking's ticket
func FileName(bookingID string) string {
	return bookingID + "_ticket.pdf"
}

// Render lays the ticket out on a single A4 page and returns the PDF bytes
func Render(t Ticket) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Flight Ticket "+t.BookingID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Flight Ticket", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	details := [][2]string{
		{"Booking ID", t.BookingID},
		{"Booked At", t.BookingTime.Format("2006-01-02 15:04")},
		{"Flight", t.FlightNumber},
		{"From", t.DepartureAirport},
		{"To", t.ArrivalAirport},
		{"Departure", t.DepartureTime.Format("2006-01-02 15:04")},
		{"Arrival", t.ArrivalTime.Format("2006-01-02 15:04")},
	}
	for _, d := range details {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 8, d[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, d[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)

	headers := []string{"Row", "Seat", "Class", "Status", "Passenger", "Fare"}
	widths := []float64{18, 20, 30, 28, 62, 25}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	var total float64
	for _, s := range t.Seats {
		seat := s.SeatNumber
		if seat == "" {
			seat = "-"
		}
		cells := []string{
			fmt.Sprintf("%d", s.RowID),
			seat,
			s.Class,
			s.Status,
			s.PassengerName,
			fmt.Sprintf("%.2f", s.Fare),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		if s.Status == "confirmed" {
			total += s.Fare
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total charged: %.2f", total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}
