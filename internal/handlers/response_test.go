package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: missing booking details", services.ErrInvalidRequest), http.StatusBadRequest},
		{fmt.Errorf("%w: balance too low", services.ErrInsufficientFunds), http.StatusBadRequest},
		{services.ErrOTPExpired, http.StatusBadRequest},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrAccountDeactivated, http.StatusForbidden},
		{fmt.Errorf("%w: booking 9", services.ErrNotFound), http.StatusNotFound},
		{services.ErrConflict, http.StatusConflict},
		{services.ErrTooManyResetRequests, http.StatusTooManyRequests},
		{fmt.Errorf("%w: connection reset", services.ErrPersistence), http.StatusInternalServerError},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestRespondError_HidesServerErrors(t *testing.T) {
	router := newRouter(nil)
	router.GET("/fail", func(c *gin.Context) {
		respondError(c, testLogger(), fmt.Errorf("%w: pq: relation \"flights\" does not exist", services.ErrPersistence))
	})

	w := perform(router, http.MethodGet, "/fail", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body["responseMessage"], "relation")
}

func TestQueryID(t *testing.T) {
	router := newRouter(nil)
	router.GET("/id", func(c *gin.Context) {
		id, ok := queryID(c, "flightId")
		if ok {
			respond(c, http.StatusOK, "ok", gin.H{"id": id})
		}
	})

	tests := []struct {
		name    string
		query   string
		status  int
		message string
	}{
		{"Valid", "?flightId=12", http.StatusOK, "ok"},
		{"Missing", "", http.StatusBadRequest, "Missing input: flightId"},
		{"Not A Number", "?flightId=abc", http.StatusBadRequest, "Invalid flightId: abc"},
		{"Zero", "?flightId=0", http.StatusBadRequest, "Invalid flightId: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodGet, "/id"+tt.query, nil)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["responseMessage"])
		})
	}
}

func TestOwnsResource(t *testing.T) {
	handler := func(c *gin.Context) {
		if ownsResource(c, 3) {
			respond(c, http.StatusOK, "ok", nil)
		}
	}

	t.Run("Same Passenger", func(t *testing.T) {
		router := newRouter(passenger(3))
		router.GET("/r", handler)
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/r", nil).Code)
	})

	t.Run("Other Passenger", func(t *testing.T) {
		router := newRouter(passenger(4))
		router.GET("/r", handler)
		assert.Equal(t, http.StatusForbidden, perform(router, http.MethodGet, "/r", nil).Code)
	})

	t.Run("Admin", func(t *testing.T) {
		router := newRouter(admin())
		router.GET("/r", handler)
		assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/r", nil).Code)
	})

	t.Run("Anonymous", func(t *testing.T) {
		router := newRouter(nil)
		router.GET("/r", handler)
		assert.Equal(t, http.StatusUnauthorized, perform(router, http.MethodGet, "/r", nil).Code)
	})
}
