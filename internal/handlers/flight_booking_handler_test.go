package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/middleware"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bookingRef = "7d9f3c2e-41b5-4f0a-9c52-3a1f6e0b8d21"

var (
	rowColumns = []string{
		"id", "flight_id", "flight_class", "seat_number", "status", "passenger_id",
		"booking_id", "booking_time", "created_at", "updated_at",
	}
	detailColumns = append(append([]string{}, rowColumns...),
		"flight_number", "departure_time", "arrival_time", "departure_airport", "arrival_airport",
		"passenger_name", "passenger_email", "seat_fare")
)

func newBookingRouter(t *testing.T, user *middleware.UserContext) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := testLogger()

	service := services.NewBookingService(
		db,
		database.NewFlightBookingRepository(db),
		database.NewFlightRepository(db),
		database.NewUserRepository(db),
		database.NewAirplaneRepository(db),
		nil,
		logger,
	)
	handler := NewFlightBookingHandler(service, nil, logger)

	router := newRouter(user)
	book := router.Group("/api/flight/book")
	book.POST("/add", handler.AddBooking)
	book.GET("/fetch/all", handler.FetchAll)
	book.GET("/fetch/user", handler.FetchByUser)
	book.GET("/fetch/flight", handler.FetchByFlight)
	book.GET("/fetch", handler.FetchByBookingID)
	book.PUT("/ticket/cancel", handler.CancelBooking)
	book.GET("/fetch/seatDetails", handler.SeatDetails)
	book.GET("/download/ticket", handler.DownloadTicket)
	return router, mock
}

func TestAddBooking_Validation(t *testing.T) {
	t.Run("Unknown Class", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		w := perform(router, http.MethodPost, "/api/flight/book/add", gin.H{
			"flightId": 1, "passengerId": 3, "totalPassengers": 2, "flightClassType": "Premium",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["responseMessage"], "unknown flight class")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Passenger Id", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		w := perform(router, http.MethodPost, "/api/flight/book/add", gin.H{
			"flightId": 1, "totalPassengers": 1, "flightClassType": "Economy",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, decode(t, w)["responseMessage"], "missing booking details")
		// no transaction may start
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero Passengers", func(t *testing.T) {
		router, _ := newBookingRouter(t, passenger(3))

		w := perform(router, http.MethodPost, "/api/flight/book/add", gin.H{
			"flightId": 1, "passengerId": 3, "totalPassengers": 0, "flightClassType": "Economy",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, decode(t, w)["success"])
	})

	t.Run("Booking For Another Passenger", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		w := perform(router, http.MethodPost, "/api/flight/book/add", gin.H{
			"flightId": 1, "passengerId": 4, "totalPassengers": 1, "flightClassType": "Economy",
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Flight", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT (.+) FROM flights WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		w := perform(router, http.MethodPost, "/api/flight/book/add", gin.H{
			"flightId": 99, "passengerId": 3, "totalPassengers": 1, "flightClassType": "Economy",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelBookingHandler(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Owner Cancels Row", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		mock.ExpectQuery(`SELECT (.+) FROM flight_bookings WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(rowColumns).
				AddRow(10, 1, "economy", "E1", "confirmed", 3, bookingRef, now.UnixMilli(), now, now))
		mock.ExpectExec(`UPDATE flight_bookings SET status = \$2`).
			WithArgs(int64(10), "cancelled").
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := perform(router, http.MethodPut, "/api/flight/book/ticket/cancel?bookingId=10", nil)

		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		booking := body["booking"].(map[string]interface{})
		assert.Equal(t, "cancelled", booking["status"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other Passenger's Row", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(4))

		mock.ExpectQuery(`SELECT (.+) FROM flight_bookings WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(sqlmock.NewRows(rowColumns).
				AddRow(10, 1, "economy", "E1", "confirmed", 3, bookingRef, now.UnixMilli(), now, now))

		w := perform(router, http.MethodPut, "/api/flight/book/ticket/cancel?bookingId=10", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Row Id", func(t *testing.T) {
		router, _ := newBookingRouter(t, admin())

		w := perform(router, http.MethodPut, "/api/flight/book/ticket/cancel", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Missing input: bookingId", decode(t, w)["responseMessage"])
	})
}

func TestFetchByUser(t *testing.T) {
	t.Run("Own Bookings", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		mock.ExpectQuery(`WHERE fb.passenger_id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(10).AddRow(11))

		w := perform(router, http.MethodGet, "/api/flight/book/fetch/user?userId=3", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode(t, w)["bookings"], 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Someone Else's Bookings", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		w := perform(router, http.MethodGet, "/api/flight/book/fetch/user?userId=8", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchByFlight_ExcludesInactiveRows(t *testing.T) {
	router, mock := newBookingRouter(t, admin())

	mock.ExpectQuery(`WHERE fb.flight_id = \$1 AND NOT \(fb.status = ANY\(\$2\)\)`).
		WithArgs(int64(1), `{"cancelled","waiting","pending"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := perform(router, http.MethodGet, "/api/flight/book/fetch/flight?flightId=1", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDownloadTicket(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Renders PDF", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		mock.ExpectQuery(`WHERE fb.booking_id = \$1`).
			WithArgs(bookingRef).
			WillReturnRows(sqlmock.NewRows(detailColumns).
				AddRow(10, 1, "economy", "E1", "confirmed", 3, bookingRef, now.UnixMilli(), now, now,
					"AI101", now.Add(24*time.Hour), now.Add(27*time.Hour), "Indira Gandhi International", "Chhatrapati Shivaji",
					"Asha Rao", "asha@example.com", 4500.0))

		w := perform(router, http.MethodGet, "/api/flight/book/download/ticket?bookingId="+bookingRef, nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=")
		assert.True(t, len(w.Body.Bytes()) > 4)
		assert.Equal(t, "%PDF", string(w.Body.Bytes()[:4]))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Reference", func(t *testing.T) {
		router, mock := newBookingRouter(t, passenger(3))

		mock.ExpectQuery(`WHERE fb.booking_id = \$1`).
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows(detailColumns))

		w := perform(router, http.MethodGet, "/api/flight/book/download/ticket?bookingId=missing", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
