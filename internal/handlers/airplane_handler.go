package handlers

import (
	"net/http"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AirplaneHandler handles airplane HTTP requests
type AirplaneHandler struct {
	flightService *services.FlightService
	logger        *logrus.Logger
}

// NewAirplaneHandler creates a new airplane handler
func NewAirplaneHandler(flightService *services.FlightService, logger *logrus.Logger) *AirplaneHandler {
	return &AirplaneHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// AddAirplane registers an airplane; its total seat count is derived from the class allocation
func (h *AirplaneHandler) AddAirplane(c *gin.Context) {
	var req models.AddAirplaneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	airplane, err := h.flightService.AddAirplane(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Airplane added successfully", gin.H{"airplane": airplane})
}

// FetchAll lists every airplane
func (h *AirplaneHandler) FetchAll(c *gin.Context) {
	airplanes, err := h.flightService.ListAirplanes()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Airplanes fetched successfully", gin.H{"airplanes": airplanes})
}
