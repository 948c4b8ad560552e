package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// JWTSecretBytes is the amount of randomness behind each generated signing secret
const JWTSecretBytes = 32

// JWTSecrets are the signing keys config reads as JWT_SECRET and JWT_REFRESH_SECRET
type JWTSecrets struct {
	Access  string
	Refresh string
}

// GenerateSecret returns n random bytes, hex encoded
func GenerateSecret(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateJWTSecrets creates a distinct access and refresh signing secret
func GenerateJWTSecrets() (JWTSecrets, error) {
	access, err := GenerateSecret(JWTSecretBytes)
	if err != nil {
		return JWTSecrets{}, fmt.Errorf("failed to generate access secret: %w", err)
	}
	refresh, err := GenerateSecret(JWTSecretBytes)
	if err != nil {
		return JWTSecrets{}, fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	if access == refresh {
		return JWTSecrets{}, fmt.Errorf("generated access and refresh secrets collide")
	}
	return JWTSecrets{Access: access, Refresh: refresh}, nil
}

// EnvLines renders the secrets as .env assignments
func (s JWTSecrets) EnvLines() []string {
	return []string{
		"JWT_SECRET=" + s.Access,
		"JWT_REFRESH_SECRET=" + s.Refresh,
	}
}
