package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// NullString wraps sql.NullString to provide proper JSON marshaling
type NullString struct {
	sql.NullString
}

// MarshalJSON implements json.Marshaler
func (ns NullString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.String)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullString) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s != nil {
		ns.Valid = true
		ns.String = *s
	} else {
		ns.Valid = false
	}
	return nil
}

// NewNullString returns a valid NullString unless s is empty
func NewNullString(s string) NullString {
	return NullString{sql.NullString{String: s, Valid: s != ""}}
}

// UserRole is the authority a user holds
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRolePassenger UserRole = "passenger"
)

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin || r == UserRolePassenger
}

const (
	UserStatusActive      = "active"
	UserStatusDeactivated = "deactivated"
)

// User represents a registered admin or passenger
type User struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"` // Never expose
	Contact      NullString `json:"contact,omitempty" db:"contact"`
	Street       NullString `json:"street,omitempty" db:"street"`
	City         NullString `json:"city,omitempty" db:"city"`
	Pincode      NullString `json:"pincode,omitempty" db:"pincode"`
	Age          int        `json:"age" db:"age"`
	Gender       NullString `json:"gender,omitempty" db:"gender"`
	Role         UserRole   `json:"role" db:"role"`
	Status       string     `json:"status" db:"status"`
	WalletAmount float64    `json:"wallet_amount" db:"wallet_amount"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// RegisterUserRequest is the payload of the register endpoints
type RegisterUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Contact  string `json:"contact"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Pincode  string `json:"pincode"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
}

// LoginRequest is the payload of POST /api/user/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest is the payload of POST /api/user/refresh-token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResponse is returned after a successful login or refresh
type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

// ForgotPasswordRequest is the payload of POST /api/user/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest is the payload of POST /api/user/reset-password
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// AddWalletMoneyRequest is the payload of PUT /api/user/add/wallet/money
type AddWalletMoneyRequest struct {
	UserID       int64   `json:"userId" binding:"required"`
	WalletAmount float64 `json:"walletAmount" binding:"required,gt=0"`
}

// UpdateUserStatusRequest is the payload of PUT /api/user/update/status
type UpdateUserStatusRequest struct {
	UserID int64  `json:"userId" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// PasswordResetCode is a one-time code mailed during the forgot-password flow
type PasswordResetCode struct {
	ID          int64      `json:"id" db:"id"`
	Email       string     `json:"email" db:"email"`
	OTPCode     string     `json:"-" db:"otp_code"` // Never expose in JSON
	ExpiresAt   time.Time  `json:"expires_at" db:"expires_at"`
	Attempts    int        `json:"attempts" db:"attempts"`
	MaxAttempts int        `json:"max_attempts" db:"max_attempts"`
	Used        bool       `json:"used" db:"used"`
	IPAddress   NullString `json:"ip_address,omitempty" db:"ip_address"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// RefreshToken represents a stored (hashed) JWT refresh token
type RefreshToken struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    int64      `json:"user_id" db:"user_id"`
	TokenHash string     `json:"-" db:"token_hash"` // Never expose
	IPAddress NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent NullString `json:"user_agent,omitempty" db:"user_agent"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" db:"expires_at"`
	Revoked   bool       `json:"revoked" db:"revoked"`
}

// CommonAPIResponse is the envelope every endpoint answers with
type CommonAPIResponse struct {
	Success         bool   `json:"success"`
	ResponseMessage string `json:"responseMessage"`
}
