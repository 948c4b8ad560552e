package database

import (
	"fmt"
	"time"

	"github.com/airlinereservation/booking-backend/internal/models"
)

// PasswordResetRepository stores the one-time codes of the forgot-password flow
type PasswordResetRepository struct {
	db DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository
func NewPasswordResetRepository(db DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a new code
func (r *PasswordResetRepository) Create(code *models.PasswordResetCode) error {
	query := `
		INSERT INTO password_reset_codes (email, otp_code, expires_at, max_attempts, ip_address)
		VALUES (LOWER($1), $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.db.QueryRowx(query, code.Email, code.OTPCode, code.ExpiresAt, code.MaxAttempts, code.IPAddress).
		Scan(&code.ID, &code.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store password reset code: %w", err)
	}
	return nil
}

// GetLatestActive returns the newest unused, unexpired code for an email
func (r *PasswordResetRepository) GetLatestActive(email string) (*models.PasswordResetCode, error) {
	code := &models.PasswordResetCode{}
	query := `
		SELECT id, email, otp_code, expires_at, attempts, max_attempts, used, ip_address, created_at
		FROM password_reset_codes
		WHERE email = LOWER($1) AND used = FALSE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	if err := r.db.Get(code, query, email, time.Now()); err != nil {
		if translateError(err) == ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch password reset code: %w", err)
	}
	return code, nil
}

// IncrementAttempts records a failed verification
func (r *PasswordResetRepository) IncrementAttempts(id int64) error {
	if _, err := r.db.Exec(`UPDATE password_reset_codes SET attempts = attempts + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to increment attempts: %w", err)
	}
	return nil
}

// MarkUsed consumes a code
func (r *PasswordResetRepository) MarkUsed(id int64) error {
	if _, err := r.db.Exec(`UPDATE password_reset_codes SET used = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to mark code used: %w", err)
	}
	return nil
}

// InvalidateForEmail consumes every outstanding code for an email
func (r *PasswordResetRepository) InvalidateForEmail(email string) error {
	_, err := r.db.Exec(`UPDATE password_reset_codes SET used = TRUE WHERE email = LOWER($1) AND used = FALSE`, email)
	if err != nil {
		return fmt.Errorf("failed to invalidate codes: %w", err)
	}
	return nil
}

// CountRecent counts codes issued to an email since a point in time
func (r *PasswordResetRepository) CountRecent(email string, since time.Time) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM password_reset_codes WHERE email = LOWER($1) AND created_at > $2`, email, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count password reset codes: %w", err)
	}
	return count, nil
}

// DeleteExpired purges used and expired codes
func (r *PasswordResetRepository) DeleteExpired() (int64, error) {
	result, err := r.db.Exec(`DELETE FROM password_reset_codes WHERE expires_at < $1 OR used = TRUE`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
