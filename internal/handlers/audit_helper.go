package handlers

import (
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/airlinereservation/booking-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// clientInfo captures the caller's address and user agent for token storage and auditing
func clientInfo(c *gin.Context) services.ClientInfo {
	return services.ClientInfo{
		IPAddress: utils.GetRealIP(c),
		UserAgent: utils.GetUserAgent(c),
	}
}

// auditLogger writes audit events without failing the request
type auditLogger struct {
	service *services.AuditService
	logger  *logrus.Logger
}

func (a auditLogger) logError(operation string, err error) {
	if err != nil {
		a.logger.WithError(err).WithField("operation", operation).Warn("Audit log write failed")
	}
}

func (a auditLogger) login(userID *int64, email string, client services.ClientInfo, success bool, reason string) {
	if a.service == nil {
		return
	}
	a.logError("LogLogin", a.service.LogLogin(userID, email, client.IPAddress, client.UserAgent, success, reason))
}

func (a auditLogger) tokenRefresh(userID *int64, client services.ClientInfo, success bool) {
	if a.service == nil {
		return
	}
	a.logError("LogTokenRefresh", a.service.LogTokenRefresh(userID, client.IPAddress, client.UserAgent, success))
}

func (a auditLogger) passwordReset(email, stage string, client services.ClientInfo, success bool, reason string) {
	if a.service == nil {
		return
	}
	a.logError("LogPasswordReset", a.service.LogPasswordReset(email, stage, client.IPAddress, client.UserAgent, success, reason))
}

func (a auditLogger) bookingCancel(userID, rowID int64, client services.ClientInfo) {
	if a.service == nil {
		return
	}
	a.logError("LogBookingCancel", a.service.LogBookingCancel(userID, rowID, client.IPAddress, client.UserAgent))
}
