package handlers

import (
	"errors"
	"net/http"

	"github.com/airlinereservation/booking-backend/internal/models"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// UserHandler handles registration, login and wallet HTTP requests
type UserHandler struct {
	userService  *services.UserService
	resetService *services.PasswordResetService
	audit        auditLogger
	logger       *logrus.Logger
}

// NewUserHandler creates a new user handler. auditService may be nil.
func NewUserHandler(
	userService *services.UserService,
	resetService *services.PasswordResetService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *UserHandler {
	return &UserHandler{
		userService:  userService,
		resetService: resetService,
		audit:        auditLogger{service: auditService, logger: logger},
		logger:       logger,
	}
}

// RegisterPassenger handles passenger sign up
// @Summary Register passenger
// @Tags User
// @Accept json
// @Produce json
// @Param request body models.RegisterUserRequest true "Registration details"
// @Router /api/user/register [post]
func (h *UserHandler) RegisterPassenger(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.RegisterPassenger(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "User registered successfully", gin.H{"user": user})
}

// RegisterAdmin handles the one-time admin sign up
// @Summary Register admin
// @Tags User
// @Router /api/user/admin/register [post]
func (h *UserHandler) RegisterAdmin(c *gin.Context) {
	var req models.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.RegisterAdmin(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Admin registered successfully", gin.H{"user": user})
}

// Login authenticates a user and returns a token pair
// @Summary Login
// @Tags User
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.LoginResponse
// @Router /api/user/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := clientInfo(c)
	resp, err := h.userService.Login(req, client)
	if err != nil {
		h.audit.login(nil, req.Email, client, false, err.Error())
		h.logger.WithFields(logrus.Fields{
			"email": req.Email,
			"ip":    client.IPAddress,
			"error": err.Error(),
		}).Warn("Login failed")
		respondError(c, h.logger, err)
		return
	}

	h.audit.login(&resp.User.ID, resp.User.Email, client, true, "")
	h.logger.WithFields(logrus.Fields{
		"user_id": resp.User.ID,
		"role":    resp.User.Role,
	}).Info("Login successful")

	respond(c, http.StatusOK, "Logged in successfully", gin.H{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"expires_in":    resp.ExpiresIn,
		"user":          resp.User,
	})
}

// RefreshToken exchanges a refresh token for a new token pair
// @Summary Refresh access token
// @Tags User
// @Router /api/user/refresh-token [post]
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := clientInfo(c)
	resp, err := h.userService.RefreshToken(req.RefreshToken, client)
	if err != nil {
		h.audit.tokenRefresh(nil, client, false)
		respondError(c, h.logger, err)
		return
	}

	h.audit.tokenRefresh(&resp.User.ID, client, true)
	respond(c, http.StatusOK, "Token refreshed", gin.H{
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"expires_in":    resp.ExpiresIn,
	})
}

// Logout revokes a refresh token
// @Summary Logout
// @Tags User
// @Router /api/user/logout [post]
func (h *UserHandler) Logout(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.userService.Logout(req.RefreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Logged out successfully", nil)
}

// ForgotPassword mails a one-time code to a registered email
// @Summary Request password reset code
// @Tags User
// @Router /api/user/forgot-password [post]
func (h *UserHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := clientInfo(c)
	if err := h.resetService.RequestReset(req.Email, client.IPAddress); err != nil {
		h.audit.passwordReset(req.Email, "request", client, false, err.Error())
		respondError(c, h.logger, err)
		return
	}

	h.audit.passwordReset(req.Email, "request", client, true, "")
	respond(c, http.StatusOK, "OTP sent to your registered email", nil)
}

// ResetPassword sets a new password using a mailed code
// @Summary Reset password
// @Tags User
// @Router /api/user/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	client := clientInfo(c)
	if err := h.resetService.ResetPassword(req); err != nil {
		h.audit.passwordReset(req.Email, "reset", client, false, err.Error())
		respondError(c, h.logger, err)
		return
	}

	h.audit.passwordReset(req.Email, "reset", client, true, "")
	respond(c, http.StatusOK, "Password reset successfully", nil)
}

// FetchByRole lists the users holding a role
// @Summary List users by role
// @Tags User
// @Router /api/user/fetch/role [get]
func (h *UserHandler) FetchByRole(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		respond(c, http.StatusBadRequest, "Missing input: role", nil)
		return
	}

	users, err := h.userService.UsersByRole(role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Users fetched successfully", gin.H{"users": users})
}

// UpdateStatus activates or deactivates a user
// @Summary Update user status
// @Tags User
// @Router /api/user/update/status [put]
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req models.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if userCtx, ok := currentUser(c); !ok {
		return
	} else if userCtx.UserID == req.UserID {
		respond(c, http.StatusBadRequest, "You cannot change your own status", nil)
		return
	}

	if err := h.userService.UpdateStatus(req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "User status updated successfully", nil)
}

// AddWalletMoney credits the caller's wallet
// @Summary Add wallet money
// @Tags User
// @Router /api/user/add/wallet/money [put]
func (h *UserHandler) AddWalletMoney(c *gin.Context) {
	var req models.AddWalletMoneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if !ownsResource(c, req.UserID) {
		return
	}

	balance, err := h.userService.AddWalletMoney(req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Wallet updated successfully", gin.H{"walletAmount": balance})
}

// FetchWallet returns the caller's wallet balance
// @Summary Fetch wallet balance
// @Tags User
// @Router /api/user/passenger/wallet/fetch [get]
func (h *UserHandler) FetchWallet(c *gin.Context) {
	userID, ok := queryID(c, "userId")
	if !ok || !ownsResource(c, userID) {
		return
	}

	balance, err := h.userService.WalletBalance(userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			respond(c, http.StatusNotFound, "User not found", nil)
			return
		}
		respondError(c, h.logger, err)
		return
	}

	respond(c, http.StatusOK, "Wallet fetched successfully", gin.H{"walletAmount": balance})
}
