package auth

import (
	"testing"

	"braindump_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setTestJWTConfig(t *testing.T, secret string) {
	t.Helper()
	prev := config.AppConfig
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.TTL = 60
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestGenerateAndParseToken(t *testing.T) {
	setTestJWTConfig(t, "test-secret")

	token, err := GenerateToken("user-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestParseToken_RejectsTamperedToken(t *testing.T) {
	setTestJWTConfig(t, "test-secret")

	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}

func TestParseToken_RejectsWrongSecret(t *testing.T) {
	setTestJWTConfig(t, "test-secret")
	token, err := GenerateToken("user-1")
	require.NoError(t, err)

	setTestJWTConfig(t, "different-secret")
	_, err = ParseToken(token)
	assert.Error(t, err)
}
