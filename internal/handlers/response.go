package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/airlinereservation/booking-backend/internal/middleware"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respond writes the {success, responseMessage} envelope plus any payload fields
func respond(c *gin.Context, status int, message string, payload gin.H) {
	body := gin.H{
		"success":         status < http.StatusBadRequest,
		"responseMessage": message,
	}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondError maps a service error onto an HTTP status. Server errors are logged and hidden.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		respond(c, status, "Internal server error, please try again later", nil)
		return
	}
	respond(c, status, err.Error(), nil)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrOTPInvalid),
		errors.Is(err, services.ErrOTPExpired),
		errors.Is(err, services.ErrMaxAttemptsExceeded):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidRefreshToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccountDeactivated):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrTooManyResetRequests):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bindError answers a request whose body could not be decoded
func bindError(c *gin.Context, err error) {
	respond(c, http.StatusBadRequest, "Invalid request body: "+err.Error(), nil)
}

// queryID reads a required positive integer query parameter.
// On failure it has already answered the request.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		respond(c, http.StatusBadRequest, "Missing input: "+name, nil)
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		respond(c, http.StatusBadRequest, "Invalid "+name+": "+raw, nil)
		return 0, false
	}
	return id, true
}

// ownsResource reports whether the caller is an admin or the user identified by userID.
// A passenger acting on another user's data gets a 403.
func ownsResource(c *gin.Context, userID int64) bool {
	userCtx, ok := currentUser(c)
	if !ok {
		return false
	}
	if userCtx.IsAdmin() || userCtx.UserID == userID {
		return true
	}
	respond(c, http.StatusForbidden, "You don't have permission to access this resource", nil)
	return false
}

// currentUser returns the authenticated caller or answers 401
func currentUser(c *gin.Context) (middleware.UserContext, bool) {
	userCtx, ok := middleware.GetUserContext(c)
	if !ok {
		respond(c, http.StatusUnauthorized, "Unauthorized", nil)
	}
	return userCtx, ok
}
