package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/jobmatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-at-least-16-chars"

func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func adminClaims(role string, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "ops@example.com",
			Issuer:    "jobportal",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func TestJWTService_ValidateToken(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: testSecret})

	token := signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims("admin", time.Hour))
	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.GetRole())
	assert.Equal(t, "ops@example.com", claims.GetSubject())
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: testSecret})

	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "empty"},
		{"garbage", "not-a-token", "malformed"},
		{"wrong secret", signToken(t, "another-secret-16-chars", jwt.SigningMethodHS256, adminClaims("admin", time.Hour)), "signature"},
		{"expired", signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims("admin", -time.Minute)), "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: testSecret})

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, adminClaims("admin", time.Hour)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_Issuer(t *testing.T) {
	svc := NewJWTService(&config.JWTConfig{Secret: testSecret, Issuer: "jobportal"})

	_, err := svc.ValidateToken(signToken(t, testSecret, jwt.SigningMethodHS256, adminClaims("admin", time.Hour)))
	require.NoError(t, err)

	other := adminClaims("admin", time.Hour)
	other.Issuer = "someone-else"
	_, err = svc.ValidateToken(signToken(t, testSecret, jwt.SigningMethodHS256, other))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "issuer")
}
