package utils_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/SscSPs/unit_availability_app/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTPCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := utils.GenerateOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	now := time.Now()
	token, exp, err := utils.GenerateJWT("user-1", "a@x.com", "secret", time.Hour, "issuer", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := utils.ParseAndValidateJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)

	_, err = utils.ParseAndValidateJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestJWTExpired(t *testing.T) {
	token, _, err := utils.GenerateJWT("user-1", "", "secret", time.Minute, "issuer", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = utils.ParseAndValidateJWT(token, "secret")
	assert.Error(t, err)
}

func TestRefreshTokenHash(t *testing.T) {
	raw, err := utils.GenerateSecureRandomString(32)
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	hash := utils.HashRefreshToken(raw)
	assert.True(t, utils.CompareRefreshTokenHash(raw, hash))
	assert.False(t, utils.CompareRefreshTokenHash(raw+"x", hash))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("correct horse")
	require.NoError(t, err)

	assert.True(t, utils.CheckPasswordHash("correct horse", &hash))
	assert.False(t, utils.CheckPasswordHash("wrong", &hash))
	assert.False(t, utils.CheckPasswordHash("correct horse", nil))
}
