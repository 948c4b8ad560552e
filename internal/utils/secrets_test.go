package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	secret, err := GenerateSecret(16)
	require.NoError(t, err)
	assert.Len(t, secret, 32)

	_, err = hex.DecodeString(secret)
	assert.NoError(t, err)

	_, err = GenerateSecret(0)
	assert.Error(t, err)
}

func TestGenerateJWTSecrets(t *testing.T) {
	secrets, err := GenerateJWTSecrets()
	require.NoError(t, err)

	assert.Len(t, secrets.Access, JWTSecretBytes*2)
	assert.Len(t, secrets.Refresh, JWTSecretBytes*2)
	assert.NotEqual(t, secrets.Access, secrets.Refresh)

	lines := secrets.EnvLines()
	require.Len(t, lines, 2)
	assert.Equal(t, "JWT_SECRET="+secrets.Access, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "JWT_REFRESH_SECRET="))
}
