package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "unit-secret")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, CodecJWT, cfg.TokenCodec)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 168*time.Hour, cfg.CookieTTL)
	require.Equal(t, time.Hour, cfg.ExpiryWarning)
	require.Equal(t, "bank_auth_token", cfg.CookieName)
	require.Equal(t, "Sheet1!A:D", cfg.SheetRange)
	require.False(t, cfg.SheetConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "unit-secret")
	t.Setenv("TOKEN_CODEC", "hmac")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("SESSION_EXPIRY_WARNING", "5m")
	t.Setenv("SHEET_ID", "sheet-123")
	t.Setenv("SHEET_API_KEY", "key-456")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, CodecHMAC, cfg.TokenCodec)
	require.Equal(t, time.Hour, cfg.TokenTTL)
	require.Equal(t, 5*time.Minute, cfg.ExpiryWarning)
	require.True(t, cfg.SheetConfigured())
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TOKEN_SECRET")
}

func TestValidateRejectsUnknownCodec(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "unit-secret")
	t.Setenv("TOKEN_CODEC", "base64")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TOKEN_CODEC")
}

func TestValidateRejectsCookieShorterThanToken(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "unit-secret")
	t.Setenv("TOKEN_TTL", "48h")
	t.Setenv("SESSION_COOKIE_TTL", "24h")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "SESSION_COOKIE_TTL")
}
