package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/pkg/mail"
	"github.com/airlinereservation/booking-backend/pkg/validator"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

const (
	// Requests allowed per email within resetRequestWindow
	maxResetRequests   = 3
	resetRequestWindow = time.Hour
)

var (
	// ErrOTPExpired indicates no unexpired code exists for the email
	ErrOTPExpired = errors.New("OTP has expired or was never requested")

	// ErrOTPInvalid indicates the code is incorrect
	ErrOTPInvalid = errors.New("invalid OTP code")

	// ErrMaxAttemptsExceeded indicates too many failed validation attempts
	ErrMaxAttemptsExceeded = errors.New("maximum OTP validation attempts exceeded")

	// ErrTooManyResetRequests indicates the email asked for too many codes recently
	ErrTooManyResetRequests = errors.New("too many password reset requests, try again later")
)

// PasswordResetConfig tunes the one-time codes
type PasswordResetConfig struct {
	OTPLength   int
	Expiry      time.Duration
	MaxAttempts int
}

// PasswordResetService mails one-time codes and resets passwords with them
type PasswordResetService struct {
	resetRepo  *database.PasswordResetRepository
	userRepo   *database.UserRepository
	sender     mail.Sender
	validator  *validator.UserValidator
	cfg        PasswordResetConfig
	bcryptCost int
	logger     *logrus.Logger

	// send runs the mail delivery; tests replace it to deliver synchronously
	send func(fn func())
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	resetRepo *database.PasswordResetRepository,
	userRepo *database.UserRepository,
	sender mail.Sender,
	cfg PasswordResetConfig,
	bcryptCost int,
	logger *logrus.Logger,
) *PasswordResetService {
	if cfg.OTPLength <= 0 {
		cfg.OTPLength = 6
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = 10 * time.Minute
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PasswordResetService{
		resetRepo:  resetRepo,
		userRepo:   userRepo,
		sender:     sender,
		validator:  validator.NewUserValidator(),
		cfg:        cfg,
		bcryptCost: bcryptCost,
		logger:     logger,
		send:       func(fn func()) { go fn() },
	}
}

// RequestReset mints a code for a registered email and mails it.
// Delivery failures are logged and never reach the caller.
func (s *PasswordResetService) RequestReset(email, ipAddress string) error {
	email = s.validator.NormalizeEmail(email)
	if err := s.validator.ValidateEmail(email); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if _, err := s.userRepo.GetUserByEmail(email); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: no user registered with %s", ErrNotFound, email)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	recent, err := s.resetRepo.CountRecent(email, time.Now().Add(-resetRequestWindow))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if recent >= maxResetRequests {
		return ErrTooManyResetRequests
	}

	if err := s.resetRepo.InvalidateForEmail(email); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	otp, err := generateOTP(s.cfg.OTPLength)
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	code := &models.PasswordResetCode{
		Email:       email,
		OTPCode:     otp,
		ExpiresAt:   time.Now().Add(s.cfg.Expiry),
		MaxAttempts: s.cfg.MaxAttempts,
		IPAddress:   models.NewNullString(ipAddress),
	}
	if err := s.resetRepo.Create(code); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.send(func() {
		if err := s.sender.SendPasswordResetOTP(email, otp); err != nil {
			s.logger.WithError(err).WithField("email", email).Error("Failed to send password reset mail")
		}
	})

	return nil
}

// ResetPassword consumes a valid code and replaces the user's password
func (s *PasswordResetService) ResetPassword(req models.ResetPasswordRequest) error {
	email := s.validator.NormalizeEmail(req.Email)
	if email == "" || strings.TrimSpace(req.OTP) == "" {
		return fmt.Errorf("%w: email and OTP are required", ErrInvalidRequest)
	}
	if err := s.validator.ValidatePassword(req.NewPassword); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	code, err := s.resetRepo.GetLatestActive(email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrOTPExpired
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if code.Attempts >= code.MaxAttempts {
		return ErrMaxAttemptsExceeded
	}

	if code.OTPCode != strings.TrimSpace(req.OTP) {
		if err := s.resetRepo.IncrementAttempts(code.ID); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return ErrOTPInvalid
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(email, string(hash)); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return fmt.Errorf("%w: no user registered with %s", ErrNotFound, email)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := s.resetRepo.MarkUsed(code.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.WithField("email", email).Info("Password reset")
	return nil
}

// CleanupExpired purges used and expired codes
func (s *PasswordResetService) CleanupExpired() (int64, error) {
	return s.resetRepo.DeleteExpired()
}

// generateOTP returns a random numeric code of the given length
func generateOTP(length int) (string, error) {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}
