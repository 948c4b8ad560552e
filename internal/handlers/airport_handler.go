package handlers

import (
	"net/http"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AirportHandler handles airport HTTP requests
type AirportHandler struct {
	flightService *services.FlightService
	logger        *logrus.Logger
}

// NewAirportHandler creates a new airport handler
func NewAirportHandler(flightService *services.FlightService, logger *logrus.Logger) *AirportHandler {
	return &AirportHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// AddAirport registers an airport
// @Summary Add airport
// @Tags Airport
// @Router /api/airport/add [post]
func (h *AirportHandler) AddAirport(c *gin.Context) {
	var req models.AddAirportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	airport, err := h.flightService.AddAirport(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Airport added successfully", gin.H{"airport": airport})
}

// FetchAll lists every airport
// @Summary List airports
// @Tags Airport
// @Router /api/airport/fetch/all [get]
func (h *AirportHandler) FetchAll(c *gin.Context) {
	airports, err := h.flightService.ListAirports(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Airports fetched successfully", gin.H{"airports": airports})
}
