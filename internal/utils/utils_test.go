package utils

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "12.35", FormatMoney(decimal.RequireFromString("12.3456")))
	assert.Equal(t, "-40.00", FormatMoney(decimal.NewFromInt(-40)))
	assert.Equal(t, "12.346", FormatWithPrecision(decimal.RequireFromString("12.3456"), 3))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("s3cret", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("admin@example.com", "secret", time.Hour, "smart-ledger")
	require.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Subject)
	assert.Equal(t, "smart-ledger", claims.Issuer)

	_, err = ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestPosthogWrapperWithoutKey(t *testing.T) {
	w := InitializePosthogClient("", "", discardLogger())
	assert.False(t, w.IsInitialized())
	w.Enqueue("id", "event", nil)
	w.Close()

	var nilWrapper *PosthogClientWrapper
	assert.False(t, nilWrapper.IsInitialized())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
