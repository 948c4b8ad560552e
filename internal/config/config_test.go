package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/airline?sslmode=disable")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://airline.example.com ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10, cfg.Database.MaxConnections)
	assert.Equal(t, 6, cfg.PasswordReset.OTPLength)
	assert.Equal(t, "dev", cfg.Mail.Mode)
	assert.Equal(t, []string{"http://localhost:3000", "https://airline.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"Content-Type", "Authorization"}, cfg.CORS.AllowedHeaders)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database:      DatabaseConfig{URL: "postgres://localhost/airline"},
			JWT:           JWTConfig{Secret: "a", RefreshSecret: "b"},
			Mail:          MailConfig{Mode: "dev"},
			PasswordReset: PasswordResetConfig{OTPLength: 6},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, "DATABASE_URL"},
		{"missing jwt secret", func(c *Config) { c.JWT.Secret = "" }, "JWT_SECRET"},
		{"missing refresh secret", func(c *Config) { c.JWT.RefreshSecret = "" }, "JWT_REFRESH_SECRET"},
		{"shared jwt secrets", func(c *Config) { c.JWT.RefreshSecret = c.JWT.Secret }, "must differ"},
		{"production mail without host", func(c *Config) { c.Mail.Mode = "production" }, "SMTP_HOST"},
		{"unknown mail mode", func(c *Config) { c.Mail.Mode = "pigeon" }, "MAIL_MODE"},
		{"otp too short", func(c *Config) { c.PasswordReset.OTPLength = 2 }, "OTP_LENGTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
