package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/pkg/jwt"
	"github.com/airlinereservation/booking-backend/pkg/validator"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates the email or password is wrong
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountDeactivated indicates the user has been deactivated by an admin
	ErrAccountDeactivated = errors.New("account is deactivated")

	// ErrInvalidRefreshToken indicates the refresh token is unknown, revoked or expired
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

// ClientInfo identifies the device a request came from
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// UserService handles registration, authentication and wallet operations
type UserService struct {
	userRepo         *database.UserRepository
	refreshTokenRepo *database.RefreshTokenRepository
	jwtService       *jwt.Service
	validator        *validator.UserValidator
	bcryptCost       int
	logger           *logrus.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo *database.UserRepository,
	refreshTokenRepo *database.RefreshTokenRepository,
	jwtService *jwt.Service,
	bcryptCost int,
	logger *logrus.Logger,
) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtService:       jwtService,
		validator:        validator.NewUserValidator(),
		bcryptCost:       bcryptCost,
		logger:           logger,
	}
}

// RegisterPassenger creates a passenger account with an empty wallet
func (s *UserService) RegisterPassenger(req models.RegisterUserRequest) (*models.User, error) {
	return s.register(req, models.UserRolePassenger)
}

// RegisterAdmin creates the admin account. Only one admin may self-register.
func (s *UserService) RegisterAdmin(req models.RegisterUserRequest) (*models.User, error) {
	count, err := s.userRepo.CountByRole(models.UserRoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: an admin is already registered", ErrForbidden)
	}
	return s.register(req, models.UserRoleAdmin)
}

func (s *UserService) register(req models.RegisterUserRequest, role models.UserRole) (*models.User, error) {
	contact := s.validator.SanitizeContact(req.Contact)
	if err := s.validator.Validate(validator.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Contact:  contact,
		Pincode:  strings.TrimSpace(req.Pincode),
		Age:      req.Age,
	}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        s.validator.NormalizeEmail(req.Email),
		PasswordHash: string(hash),
		Contact:      models.NewNullString(contact),
		Street:       models.NewNullString(strings.TrimSpace(req.Street)),
		City:         models.NewNullString(strings.TrimSpace(req.City)),
		Pincode:      models.NewNullString(strings.TrimSpace(req.Pincode)),
		Age:          req.Age,
		Gender:       models.NewNullString(strings.TrimSpace(req.Gender)),
		Role:         role,
		Status:       models.UserStatusActive,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, fmt.Errorf("%w: user with email %s", ErrConflict, user.Email)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": user.ID,
		"role":    role,
	}).Info("User registered")

	return user, nil
}

// Login verifies credentials and issues an access and refresh token pair
func (s *UserService) Login(req models.LoginRequest, client ClientInfo) (*models.LoginResponse, error) {
	user, err := s.userRepo.GetUserByEmail(strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDeactivated
	}

	return s.issueTokens(user, client)
}

// RefreshToken rotates a refresh token: the presented token is revoked and a new pair issued
func (s *UserService) RefreshToken(refreshToken string, client ClientInfo) (*models.LoginResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	stored, err := s.refreshTokenRepo.GetRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) || stored.UserID != claims.UserID {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if user.Status != models.UserStatusActive {
		return nil, ErrAccountDeactivated
	}

	if err := s.refreshTokenRepo.RevokeToken(refreshToken); err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return s.issueTokens(user, client)
}

// Logout revokes a refresh token
func (s *UserService) Logout(refreshToken string) error {
	if err := s.refreshTokenRepo.RevokeToken(refreshToken); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return ErrInvalidRefreshToken
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

func (s *UserService) issueTokens(user *models.User, client ClientInfo) (*models.LoginResponse, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	expiresAt := time.Now().Add(s.jwtService.RefreshTokenExpiry())
	if err := s.refreshTokenRepo.StoreRefreshToken(user.ID, refreshToken, client.IPAddress, client.UserAgent, expiresAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtService.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}

// GetUser returns a user by id
func (s *UserService) GetUser(id int64) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, lookupError("user", id, err)
	}
	return user, nil
}

// UsersByRole lists the users holding a role
func (s *UserService) UsersByRole(role string) ([]models.User, error) {
	r := models.UserRole(strings.ToLower(strings.TrimSpace(role)))
	if !r.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, role)
	}
	users, err := s.userRepo.GetUsersByRole(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return users, nil
}

// UpdateStatus activates or deactivates a user. Deactivation revokes the user's refresh tokens.
func (s *UserService) UpdateStatus(req models.UpdateUserStatusRequest) error {
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if req.UserID == 0 || (status != models.UserStatusActive && status != models.UserStatusDeactivated) {
		return fmt.Errorf("%w: unknown user status %q", ErrInvalidRequest, req.Status)
	}

	if err := s.userRepo.UpdateStatus(req.UserID, status); err != nil {
		return lookupError("user", req.UserID, err)
	}

	if status == models.UserStatusDeactivated {
		if err := s.refreshTokenRepo.RevokeAllUserTokens(req.UserID); err != nil {
			s.logger.WithError(err).WithField("user_id", req.UserID).Warn("Failed to revoke tokens of deactivated user")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"status":  status,
	}).Info("User status updated")
	return nil
}

// AddWalletMoney credits a passenger's wallet and returns the new balance
func (s *UserService) AddWalletMoney(req models.AddWalletMoneyRequest) (float64, error) {
	if req.UserID == 0 {
		return 0, fmt.Errorf("%w: missing user id", ErrInvalidRequest)
	}
	amount := roundMoney(req.WalletAmount)
	if amount <= 0 {
		return 0, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidRequest)
	}

	balance, err := s.userRepo.AddWalletAmount(req.UserID, amount)
	if err != nil {
		return 0, lookupError("user", req.UserID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": req.UserID,
		"amount":  amount,
		"balance": balance,
	}).Info("Wallet credited")
	return balance, nil
}

// WalletBalance returns a passenger's wallet balance
func (s *UserService) WalletBalance(userID int64) (float64, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return 0, err
	}
	return user.WalletAmount, nil
}
