package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Password reset (OTP by email) configuration
	PasswordReset PasswordResetConfig

	// Outgoing mail configuration
	Mail MailConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS configuration
	CORS CORSConfig

	// Security configuration
	Security SecurityConfig

	// Redis cache configuration
	Redis RedisConfig

	// RabbitMQ event publishing configuration
	RabbitMQ RabbitMQConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
	AutoMigrate        bool
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// PasswordResetConfig holds OTP settings for the forgot-password flow
type PasswordResetConfig struct {
	OTPLength     int
	ExpiryMinutes int
	MaxAttempts   int
}

// MailConfig holds SMTP settings
type MailConfig struct {
	Mode     string // "dev" logs the code instead of sending, "production" sends via SMTP
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// RateLimitConfig holds per-IP rate limiting configuration for public auth routes
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost       int
	EnableRequestLog bool
	EnableAuditLog   bool
}

// RedisConfig holds cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// RabbitMQConfig holds broker settings. An empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	config := &Config{
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			Environment: v.GetString("ENVIRONMENT"),
			LogLevel:    v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			URL:                v.GetString("DATABASE_URL"),
			MaxConnections:     v.GetInt("DATABASE_MAX_CONNECTIONS"),
			MaxIdleConnections: v.GetInt("DATABASE_MAX_IDLE_CONNECTIONS"),
			ConnMaxLifetime:    time.Duration(v.GetInt("DATABASE_CONN_MAX_LIFETIME")) * time.Second,
			AutoMigrate:        v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("JWT_SECRET"),
			RefreshSecret:      v.GetString("JWT_REFRESH_SECRET"),
			AccessTokenExpiry:  time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY")) * time.Second,
			RefreshTokenExpiry: time.Duration(v.GetInt("JWT_REFRESH_TOKEN_EXPIRY")) * time.Second,
		},
		PasswordReset: PasswordResetConfig{
			OTPLength:     v.GetInt("OTP_LENGTH"),
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			MaxAttempts:   v.GetInt("OTP_MAX_ATTEMPTS"),
		},
		Mail: MailConfig{
			Mode:     v.GetString("MAIL_MODE"),
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getAsSlice(v, "CORS_ALLOWED_ORIGINS"),
			AllowedMethods: getAsSlice(v, "CORS_ALLOWED_METHODS"),
			AllowedHeaders: getAsSlice(v, "CORS_ALLOWED_HEADERS"),
		},
		Security: SecurityConfig{
			BcryptCost:       v.GetInt("BCRYPT_COST"),
			EnableRequestLog: v.GetBool("ENABLE_REQUEST_LOGGING"),
			EnableAuditLog:   v.GetBool("ENABLE_AUDIT_LOGGING"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      time.Duration(v.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DATABASE_MAX_CONNECTIONS", 10)
	v.SetDefault("DATABASE_MAX_IDLE_CONNECTIONS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", 300)
	v.SetDefault("DB_AUTO_MIGRATE", false)

	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY", 3600)
	v.SetDefault("JWT_REFRESH_TOKEN_EXPIRY", 604800)

	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_MAX_ATTEMPTS", 3)

	v.SetDefault("MAIL_MODE", "dev")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_FROM", "no-reply@airline-reservation.local")

	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "Content-Type,Authorization")

	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("ENABLE_REQUEST_LOGGING", true)
	v.SetDefault("ENABLE_AUDIT_LOGGING", true)

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)

	v.SetDefault("RABBITMQ_EXCHANGE", "airline.bookings")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if c.JWT.Secret == c.JWT.RefreshSecret {
		return fmt.Errorf("JWT_SECRET and JWT_REFRESH_SECRET must differ")
	}

	switch c.Mail.Mode {
	case "dev":
	case "production":
		if c.Mail.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when MAIL_MODE=production")
		}
	default:
		return fmt.Errorf("invalid MAIL_MODE: %s (must be 'dev' or 'production')", c.Mail.Mode)
	}

	if c.PasswordReset.OTPLength < 4 || c.PasswordReset.OTPLength > 10 {
		return fmt.Errorf("OTP_LENGTH must be between 4 and 10")
	}

	return nil
}

// getAsSlice splits a comma separated value, dropping empty entries
func getAsSlice(v *viper.Viper, key string) []string {
	var result []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
