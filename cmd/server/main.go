package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airlinereservation/booking-backend/internal/config"
	"github.com/airlinereservation/booking-backend/internal/database"
	"github.com/airlinereservation/booking-backend/internal/handlers"
	"github.com/airlinereservation/booking-backend/internal/middleware"
	"github.com/airlinereservation/booking-backend/internal/services"
	"github.com/airlinereservation/booking-backend/pkg/cache"
	"github.com/airlinereservation/booking-backend/pkg/events"
	"github.com/airlinereservation/booking-backend/pkg/jwt"
	"github.com/airlinereservation/booking-backend/pkg/mail"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting airline reservation backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := database.EnsureSchema(db); err != nil {
			logger.Fatalf("Failed to ensure schema: %v", err)
		}
		logger.Info("Database schema ensured")
	}

	flightCache := newCache(cfg.Redis, logger)
	defer flightCache.Close()

	publisher := newPublisher(cfg.RabbitMQ, logger)
	defer publisher.Close()

	// Repositories
	userRepository := database.NewUserRepository(db)
	refreshTokenRepository := database.NewRefreshTokenRepository(db)
	resetRepository := database.NewPasswordResetRepository(db)
	airportRepository := database.NewAirportRepository(db)
	airplaneRepository := database.NewAirplaneRepository(db)
	flightRepository := database.NewFlightRepository(db)
	bookingRepository := database.NewFlightBookingRepository(db)

	// Services
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(db, cfg.Security.EnableAuditLog)
	userService := services.NewUserService(userRepository, refreshTokenRepository, jwtService, cfg.Security.BcryptCost, logger)
	resetService := services.NewPasswordResetService(
		resetRepository,
		userRepository,
		newMailSender(cfg.Mail, logger),
		services.PasswordResetConfig{
			OTPLength:   cfg.PasswordReset.OTPLength,
			Expiry:      time.Duration(cfg.PasswordReset.ExpiryMinutes) * time.Minute,
			MaxAttempts: cfg.PasswordReset.MaxAttempts,
		},
		cfg.Security.BcryptCost,
		logger,
	)
	flightService := services.NewFlightService(
		db,
		flightRepository,
		airportRepository,
		airplaneRepository,
		bookingRepository,
		flightCache,
		logger,
	)
	bookingService := services.NewBookingService(
		db,
		bookingRepository,
		flightRepository,
		userRepository,
		airplaneRepository,
		publisher,
		logger,
	)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	limiter.OnReject(func(ip, path, userAgent string) {
		if err := auditService.LogRateLimitViolation(path, ip, userAgent); err != nil {
			logger.WithError(err).Warn("Failed to audit rate limit violation")
		}
	})

	cronService := services.NewCronService(flightService, resetService, auditService, refreshTokenRepository, limiter, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("Cron service started")

	h := routeHandlers{
		user:     handlers.NewUserHandler(userService, resetService, auditService, logger),
		airport:  handlers.NewAirportHandler(flightService, logger),
		airplane: handlers.NewAirplaneHandler(flightService, logger),
		flight:   handlers.NewFlightHandler(flightService, logger),
		booking:  handlers.NewFlightBookingHandler(bookingService, auditService, logger),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", healthCheckHandler(db))
	registerRoutes(router, h, middleware.AuthMiddleware(jwtService, logger), limiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cronService.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// newCache connects to Redis, falling back to no caching when it is not configured or unreachable
func newCache(cfg config.RedisConfig, logger *logrus.Logger) cache.Cache {
	if cfg.Addr == "" {
		logger.Info("Redis not configured, flight listings are not cached")
		return cache.NewNoOpCache()
	}

	c, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
		TTL:      cfg.TTL,
	})
	if err != nil {
		logger.WithError(err).Warn("Redis unreachable, flight listings are not cached")
		return cache.NewNoOpCache()
	}

	logger.WithField("addr", cfg.Addr).Info("Redis cache connected")
	return c
}

// newPublisher connects to RabbitMQ, falling back to dropping booking events
func newPublisher(cfg config.RabbitMQConfig, logger *logrus.Logger) events.Publisher {
	if cfg.URL == "" {
		logger.Info("RabbitMQ not configured, booking events are not published")
		return events.NoopPublisher{}
	}

	p, err := events.NewRabbitPublisher(cfg.URL, cfg.Exchange)
	if err != nil {
		logger.WithError(err).Warn("RabbitMQ unreachable, booking events are not published")
		return events.NoopPublisher{}
	}

	logger.WithField("exchange", cfg.Exchange).Info("RabbitMQ publisher connected")
	return p
}

func newMailSender(cfg config.MailConfig, logger *logrus.Logger) mail.Sender {
	if cfg.Mode != "production" {
		logger.Info("Mail in development mode (reset codes are logged, not sent)")
		return mail.NewLogSender(logger)
	}
	return mail.NewSMTPSender(mail.Config{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.Username,
		Password: cfg.Password,
		From:     cfg.From,
	})
}

// requestLogger logs every request with its outcome and the authenticated caller
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": time.Since(start).Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		if status >= 500 {
			entry.Error("Request completed with server error")
		} else if status >= 400 {
			entry.Warn("Request completed with client error")
		} else {
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
