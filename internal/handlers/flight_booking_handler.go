package handlers

import (
	"net/http"
	"strings"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FlightBookingHandler handles booking, cancellation and booking listing HTTP requests
type FlightBookingHandler struct {
	bookingService *services.BookingService
	audit          auditLogger
	logger         *logrus.Logger
}

// NewFlightBookingHandler creates a new booking handler. auditService may be nil.
func NewFlightBookingHandler(
	bookingService *services.BookingService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *FlightBookingHandler {
	return &FlightBookingHandler{
		bookingService: bookingService,
		audit:          auditLogger{service: auditService, logger: logger},
		logger:         logger,
	}
}

// AddBooking books seats for a passenger. Seats beyond what is available go on the waiting list.
// @Summary Book flight seats
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body models.AddFlightBookingRequest true "Booking details"
// @Success 200 {object} models.BookingResult
// @Router /api/flight/book/add [post]
func (h *FlightBookingHandler) AddBooking(c *gin.Context) {
	var req models.AddFlightBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	// a missing passengerId is rejected by PlaceBooking as an invalid request
	if req.PassengerID != 0 && !ownsResource(c, req.PassengerID) {
		return
	}

	result, err := h.bookingService.PlaceBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, result.Message, gin.H{"booking": result})
}

// FetchAll lists every confirmed, cancelled or waiting booking row
// @Summary List all bookings
// @Tags Booking
// @Router /api/flight/book/fetch/all [get]
func (h *FlightBookingHandler) FetchAll(c *gin.Context) {
	bookings, err := h.bookingService.ListBookings()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Bookings fetched successfully", gin.H{"bookings": bookings})
}

// FetchByUser lists a passenger's booking rows
// @Summary List passenger bookings
// @Tags Booking
// @Router /api/flight/book/fetch/user [get]
func (h *FlightBookingHandler) FetchByUser(c *gin.Context) {
	userID, ok := queryID(c, "userId")
	if !ok || !ownsResource(c, userID) {
		return
	}

	bookings, err := h.bookingService.ListPassengerBookings(userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Bookings fetched successfully", gin.H{"bookings": bookings})
}

// FetchByFlight lists the manifest of a flight
// @Summary List flight bookings
// @Tags Booking
// @Router /api/flight/book/fetch/flight [get]
func (h *FlightBookingHandler) FetchByFlight(c *gin.Context) {
	flightID, ok := queryID(c, "flightId")
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListFlightBookings(flightID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Bookings fetched successfully", gin.H{"bookings": bookings})
}

// FetchByBookingID lists every row sharing a booking reference
// @Summary Fetch booking by reference
// @Tags Booking
// @Router /api/flight/book/fetch [get]
func (h *FlightBookingHandler) FetchByBookingID(c *gin.Context) {
	bookingID := strings.TrimSpace(c.Query("bookingId"))
	if bookingID == "" {
		respond(c, http.StatusBadRequest, "Missing input: bookingId", nil)
		return
	}

	bookings, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Bookings fetched successfully", gin.H{"bookings": bookings})
}

// CancelBooking cancels a single seat row. bookingId is the row id, not the booking reference.
// @Summary Cancel booking row
// @Tags Booking
// @Router /api/flight/book/ticket/cancel [put]
func (h *FlightBookingHandler) CancelBooking(c *gin.Context) {
	rowID, ok := queryID(c, "bookingId")
	if !ok {
		return
	}
	userCtx, ok := currentUser(c)
	if !ok {
		return
	}

	var ownerID int64
	if !userCtx.IsAdmin() {
		ownerID = userCtx.UserID
	}

	row, err := h.bookingService.CancelBooking(c.Request.Context(), rowID, ownerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.audit.bookingCancel(userCtx.UserID, rowID, clientInfo(c))
	respond(c, http.StatusOK, "Booking cancelled successfully", gin.H{"booking": row})
}

// SeatDetails returns available and waiting counts per cabin class
// @Summary Flight seat details
// @Tags Booking
// @Router /api/flight/book/fetch/seatDetails [get]
func (h *FlightBookingHandler) SeatDetails(c *gin.Context) {
	flightID, ok := queryID(c, "flightId")
	if !ok {
		return
	}

	details, err := h.bookingService.SeatDetails(flightID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, details)
}

// DownloadTicket streams the PDF ticket of a booking reference
// @Summary Download ticket
// @Tags Booking
// @Produce application/pdf
// @Router /api/flight/book/download/ticket [get]
func (h *FlightBookingHandler) DownloadTicket(c *gin.Context) {
	bookingID := strings.TrimSpace(c.Query("bookingId"))
	if bookingID == "" {
		respond(c, http.StatusBadRequest, "Missing input: bookingId", nil)
		return
	}

	pdf, filename, err := h.bookingService.TicketPDF(bookingID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
