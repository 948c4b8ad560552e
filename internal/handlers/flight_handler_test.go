package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlightRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := testLogger()

	service := services.NewFlightService(
		db,
		database.NewFlightRepository(db),
		database.NewAirportRepository(db),
		database.NewAirplaneRepository(db),
		database.NewFlightBookingRepository(db),
		nil,
		logger,
	)
	flights := NewFlightHandler(service, logger)
	airports := NewAirportHandler(service, logger)

	router := newRouter(admin())
	router.POST("/api/flight/add", flights.AddFlight)
	router.GET("/api/flight/search", flights.Search)
	router.GET("/api/flight/class/all", flights.FetchClasses)
	router.GET("/api/flight/status/all", flights.FetchStatuses)
	router.PUT("/api/flight/update/status", flights.UpdateStatus)
	router.POST("/api/airport/add", airports.AddAirport)
	return router, mock
}

func TestFetchClasses(t *testing.T) {
	router, _ := newFlightRouter(t)

	w := perform(router, http.MethodGet, "/api/flight/class/all", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var classes []string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &classes))
	assert.Equal(t, []string{"Economy", "Business", "First Class"}, classes)
}

func TestSearchFlights(t *testing.T) {
	t.Run("Filters By Route And Day", func(t *testing.T) {
		router, mock := newFlightRouter(t)

		day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`WHERE f.departure_airport_id = \$1 AND f.arrival_airport_id = \$2 AND f.departure_time >= \$3`).
			WithArgs(int64(1), int64(2), day, day.AddDate(0, 0, 1)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

		w := perform(router, http.MethodGet, "/api/flight/search?departureAirportId=1&arrivalAirportId=2&date=2026-03-14", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["flights"], 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bad Date", func(t *testing.T) {
		router, _ := newFlightRouter(t)

		w := perform(router, http.MethodGet, "/api/flight/search?date=14-03-2026", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", decode(t, w)["responseMessage"])
	})

	t.Run("Same Airports", func(t *testing.T) {
		router, mock := newFlightRouter(t)

		w := perform(router, http.MethodGet, "/api/flight/search?departureAirportId=2&arrivalAirportId=2", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAddFlight_RejectsArrivalBeforeDeparture(t *testing.T) {
	router, mock := newFlightRouter(t)

	departure := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	w := perform(router, http.MethodPost, "/api/flight/add", gin.H{
		"flightNumber":       "AI101",
		"airplaneId":         9,
		"departureAirportId": 1,
		"arrivalAirportId":   2,
		"departureTime":      departure,
		"arrivalTime":        departure.Add(-time.Hour),
		"economySeatFare":    4500,
		"businessSeatFare":   9000,
		"firstClassSeatFare": 15000,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFlightStatus_UnknownStatus(t *testing.T) {
	router, mock := newFlightRouter(t)

	w := perform(router, http.MethodPut, "/api/flight/update/status", gin.H{"flightId": 5, "status": "teleported"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddAirport_BindError(t *testing.T) {
	router, _ := newFlightRouter(t)

	w := perform(router, http.MethodPost, "/api/airport/add", gin.H{"name": "Bandaranaike International", "code": "CMBX"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w)["responseMessage"], "Invalid request body")
}
