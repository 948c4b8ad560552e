package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// FlightHandler handles flight HTTP requests
type FlightHandler struct {
	flightService *services.FlightService
	logger        *logrus.Logger
}

// NewFlightHandler creates a new flight handler
func NewFlightHandler(flightService *services.FlightService, logger *logrus.Logger) *FlightHandler {
	return &FlightHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// AddFlight schedules a flight and seeds its seat inventory
// @Summary Add flight
// @Tags Flight
// @Accept json
// @Produce json
// @Param request body models.AddFlightRequest true "Flight details"
// @Router /api/flight/add [post]
func (h *FlightHandler) AddFlight(c *gin.Context) {
	var req models.AddFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	flight, err := h.flightService.AddFlight(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Flight added successfully", gin.H{"flight": flight})
}

// FetchAll lists every flight
// @Summary List flights
// @Tags Flight
// @Router /api/flight/fetch/all [get]
func (h *FlightHandler) FetchAll(c *gin.Context) {
	flights, err := h.flightService.ListFlights(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Flights fetched successfully", gin.H{"flights": flights})
}

// Search filters flights by departure airport, arrival airport and day (YYYY-MM-DD)
// @Summary Search flights
// @Tags Flight
// @Router /api/flight/search [get]
func (h *FlightHandler) Search(c *gin.Context) {
	var criteria models.FlightSearchCriteria

	for name, dest := range map[string]*int64{
		"departureAirportId": &criteria.DepartureAirportID,
		"arrivalAirportId":   &criteria.ArrivalAirportID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			respond(c, http.StatusBadRequest, "Invalid "+name+": "+raw, nil)
			return
		}
		*dest = id
	}

	if raw := c.Query("date"); raw != "" {
		date, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respond(c, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD", nil)
			return
		}
		criteria.Date = &date
	}

	flights, err := h.flightService.SearchFlights(criteria)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Flights fetched successfully", gin.H{"flights": flights})
}

// FetchClasses lists the cabin classes
func (h *FlightHandler) FetchClasses(c *gin.Context) {
	c.JSON(http.StatusOK, h.flightService.FlightClasses())
}

// FetchStatuses lists the statuses an admin may set
func (h *FlightHandler) FetchStatuses(c *gin.Context) {
	c.JSON(http.StatusOK, h.flightService.FlightStatuses())
}

// UpdateStatus changes the operational status of a flight
// @Summary Update flight status
// @Tags Flight
// @Router /api/flight/update/status [put]
func (h *FlightHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateFlightStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.flightService.UpdateFlightStatus(c.Request.Context(), req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Flight status updated successfully", nil)
}
