package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gift-shop/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, expiresAt time.Time) string {
	t.Helper()
	claims := TokenClaims{
		UserID: "u1",
		Email:  "ada@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateTokenWithSecret(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token := signToken(t, "test-secret", time.Now().Add(time.Hour))
	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestValidateTokenRejectsBadSignature(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token := signToken(t, "other-secret", time.Now().Add(time.Hour))
	_, err := ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	token := signToken(t, "test-secret", time.Now().Add(-time.Hour))
	_, err := ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenPresenceOnlyWithoutSecret(t *testing.T) {
	config.AppConfig = &config.Config{}

	_, err := ValidateToken("any-opaque-token")
	assert.NoError(t, err)

	_, err = ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractTokenPrefersCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: "cookie-token"})
	req.Header.Set("Authorization", "Bearer header-token")

	assert.Equal(t, "cookie-token", ExtractToken(req))
}

func TestExtractTokenFallsBackToHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	assert.Equal(t, "header-token", ExtractToken(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "", ExtractToken(req))
}
