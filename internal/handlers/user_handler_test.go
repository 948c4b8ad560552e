package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/middleware"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/airlinereservation/booking-backend/pkg/jwt"
	"github.com/airlinereservation/booking-backend/pkg/mail"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "contact", "street", "city", "pincode",
	"age", "gender", "role", "status", "wallet_amount", "created_at", "updated_at",
}

func newUserRouter(t *testing.T, user *middleware.UserContext) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	logger := testLogger()

	users := database.NewUserRepository(db)
	jwtService := jwt.NewService("test-access-secret-key-123456789", "test-refresh-secret-key-123456789", time.Hour, 24*time.Hour)
	userService := services.NewUserService(users, database.NewRefreshTokenRepository(db), jwtService, bcrypt.MinCost, logger)
	resetService := services.NewPasswordResetService(database.NewPasswordResetRepository(db), users,
		mail.NewLogSender(logger), services.PasswordResetConfig{}, bcrypt.MinCost, logger)
	handler := NewUserHandler(userService, resetService, nil, logger)

	router := newRouter(user)
	router.POST("/api/user/login", handler.Login)
	router.PUT("/api/user/update/status", handler.UpdateStatus)
	router.PUT("/api/user/add/wallet/money", handler.AddWalletMoney)
	router.GET("/api/user/passenger/wallet/fetch", handler.FetchWallet)
	router.GET("/api/user/fetch/role", handler.FetchByRole)
	return router, mock
}

func TestLogin_UnknownEmail(t *testing.T) {
	router, mock := newUserRouter(t, nil)

	mock.ExpectQuery(`FROM users WHERE LOWER\(email\) = LOWER\(\$1\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	w := perform(router, http.MethodPost, "/api/user/login", gin.H{"email": "nobody@example.com", "password": "secret1"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_OwnAccount(t *testing.T) {
	router, mock := newUserRouter(t, admin())

	w := perform(router, http.MethodPut, "/api/user/update/status", gin.H{"userId": 1, "status": "deactivated"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You cannot change your own status", decode(t, w)["responseMessage"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddWalletMoney(t *testing.T) {
	t.Run("Rejects Non Positive Amount", func(t *testing.T) {
		router, mock := newUserRouter(t, passenger(3))

		w := perform(router, http.MethodPut, "/api/user/add/wallet/money", gin.H{"userId": 3, "walletAmount": -50})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rejects Other Wallet", func(t *testing.T) {
		router, mock := newUserRouter(t, passenger(3))

		w := perform(router, http.MethodPut, "/api/user/add/wallet/money", gin.H{"userId": 4, "walletAmount": 500})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchWallet(t *testing.T) {
	t.Run("Own Balance", func(t *testing.T) {
		router, mock := newUserRouter(t, passenger(3))

		now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(
				3, "Asha Perera", "asha@example.com", "hash", nil, nil, nil, nil,
				29, nil, "passenger", "active", 1250.5, now, now))

		w := perform(router, http.MethodGet, "/api/user/passenger/wallet/fetch?userId=3", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1250.5, decode(t, w)["walletAmount"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown User", func(t *testing.T) {
		router, mock := newUserRouter(t, admin())

		mock.ExpectQuery(`FROM users WHERE id = \$1`).
			WithArgs(int64(77)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		w := perform(router, http.MethodGet, "/api/user/passenger/wallet/fetch?userId=77", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "User not found", decode(t, w)["responseMessage"])
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchByRole_MissingRole(t *testing.T) {
	router, _ := newUserRouter(t, admin())

	w := perform(router, http.MethodGet, "/api/user/fetch/role", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing input: role", decode(t, w)["responseMessage"])
}
