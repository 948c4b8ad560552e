package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/utils"
)

// AuditService handles audit logging for security and booking events
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service. A disabled service accepts events and drops them.
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents an event to be logged
type AuditEvent struct {
	UserID     *int64                 // nil for pre-authentication events
	Action     string                 // e.g. "login", "password_reset", "booking_cancel"
	EntityType string                 // e.g. "user", "token", "booking"
	EntityID   string                 // id of the affected entity, may be empty
	IPAddress  string
	UserAgent  string
	Details    map[string]interface{} // stored as JSONB
}

// AuditEntry is one stored audit event
type AuditEntry struct {
	Action     string          `json:"action" db:"action"`
	EntityType string          `json:"entity_type" db:"entity_type"`
	IPAddress  *string         `json:"ip_address" db:"ip_address"`
	UserAgent  *string         `json:"user_agent" db:"user_agent"`
	Details    json.RawMessage `json:"details" db:"details"`
	CreatedAt  time.Time       `json:"created_at" db:"created_at"`
}

// LogLogin logs a login attempt. userID is nil when the email matched no user.
func (s *AuditService) LogLogin(userID *int64, email, ipAddress, userAgent string, success bool, reason string) error {
	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": utils.ParseUserAgent(userAgent),
	}
	if reason != "" {
		details["reason"] = reason
	}

	action := "login_failed"
	if success {
		action = "login"
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "user",
		EntityID:   idString(userID),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogTokenRefresh logs a refresh token usage event
func (s *AuditService) LogTokenRefresh(userID *int64, ipAddress, userAgent string, success bool) error {
	action := "token_refresh_success"
	if !success {
		action = "token_refresh_failed"
	}

	return s.logEvent(AuditEvent{
		UserID:     userID,
		Action:     action,
		EntityType: "token",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"success":     success,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogPasswordReset logs a forgot-password request or a reset attempt
func (s *AuditService) LogPasswordReset(email, stage, ipAddress, userAgent string, success bool, reason string) error {
	details := map[string]interface{}{
		"email":       email,
		"stage":       stage, // "request" or "reset"
		"success":     success,
		"device_info": utils.ParseUserAgent(userAgent),
	}
	if reason != "" {
		details["reason"] = reason
	}

	return s.logEvent(AuditEvent{
		Action:     "password_reset_" + stage,
		EntityType: "user",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogBookingCancel logs the cancellation of a seat row
func (s *AuditService) LogBookingCancel(userID, rowID int64, ipAddress, userAgent string) error {
	return s.logEvent(AuditEvent{
		UserID:     &userID,
		Action:     "booking_cancel",
		EntityType: "booking",
		EntityID:   strconv.FormatInt(rowID, 10),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// LogRateLimitViolation logs a request rejected by the per-IP limiter
func (s *AuditService) LogRateLimitViolation(path, ipAddress, userAgent string) error {
	return s.logEvent(AuditEvent{
		Action:     "rate_limit_violation",
		EntityType: "rate_limit",
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details: map[string]interface{}{
			"path":        path,
			"device_info": utils.ParseUserAgent(userAgent),
		},
	})
}

// logEvent writes to the audit_logs table
func (s *AuditService) logEvent(event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	details, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to encode audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`

	_, err = s.db.Exec(
		query,
		event.UserID,
		event.Action,
		event.EntityType,
		nullIfEmpty(event.EntityID),
		nullIfEmpty(event.IPAddress),
		nullIfEmpty(event.UserAgent),
		details,
	)
	if err != nil {
		return fmt.Errorf("failed to log audit event: %w", err)
	}

	return nil
}

// GetRecentEvents retrieves recent audit events for a user
func (s *AuditService) GetRecentEvents(userID int64, limit int) ([]AuditEntry, error) {
	query := `
		SELECT action, entity_type, ip_address, user_agent, details, created_at
		FROM audit_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	entries := []AuditEntry{}
	if err := s.db.Select(&entries, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to get recent events: %w", err)
	}
	return entries, nil
}

// CleanupOldAuditLogs removes audit logs older than the specified duration
func (s *AuditService) CleanupOldAuditLogs(olderThan time.Duration) (int64, error) {
	cutoffTime := time.Now().Add(-olderThan)

	result, err := s.db.Exec(`DELETE FROM audit_logs WHERE created_at < $1`, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup old audit logs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

func idString(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
