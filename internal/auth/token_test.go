package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractAccessToken(t *testing.T) {
	t.Run("Cookie preferred", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "cookie-token", ExtractAccessToken(req))
	})

	t.Run("Bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer header-token")

		assert.Equal(t, "header-token", ExtractAccessToken(req))
	})

	t.Run("Other scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")

		assert.Equal(t, "", ExtractAccessToken(req))
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("secret", time.Hour, 7, "a@b.com", RoleAdmin)
	require.NoError(t, err)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	t.Run("Wrong secret", func(t *testing.T) {
		_, err := ParseToken("other", token)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		expired, err := GenerateToken("secret", -time.Minute, 7, "a@b.com", RoleCustomer)
		require.NoError(t, err)

		_, err = ParseToken("secret", expired)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("Missing secret", func(t *testing.T) {
		_, err := GenerateToken("", time.Hour, 1, "", RoleCustomer)
		assert.ErrorIs(t, err, ErrMissingSecret)

		_, err = ParseToken("", token)
		assert.ErrorIs(t, err, ErrMissingSecret)
	})

	t.Run("Unexpected signing method", func(t *testing.T) {
		none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
		str, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = ParseToken("secret", str)
		assert.Error(t, err)
	})

	t.Run("Zero user id", func(t *testing.T) {
		str, err := GenerateToken("secret", time.Hour, 0, "", RoleCustomer)
		require.NoError(t, err)

		_, err = ParseToken("secret", str)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
