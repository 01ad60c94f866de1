package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

func setupTestTokenService(_ *testing.T, expirationHours int) *TokenService {
	cfg := &config.JWTConfig{
		Secret:          testSecret,
		ExpirationHours: expirationHours,
	}
	return NewTokenService(cfg)
}

func authKind(t *testing.T, err error) types.AuthErrorKind {
	t.Helper()
	var authErr *types.ErrAuth
	require.True(t, errors.As(err, &authErr), "expected *types.ErrAuth, got %T", err)
	return authErr.Kind
}

var coordinator = types.User{ID: "COORD-001", Name: "Coordinator", Role: types.RoleCoordinator}

func TestTokenService_GenerateToken(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token, expiresAt, err := service.GenerateToken(coordinator)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parts := strings.Split(token, ".")
	assert.Equal(t, 3, len(parts), "JWT should have 3 parts separated by dots")
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)
}

func TestTokenService_RoundTripCarriesIdentityAndRole(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token, _, err := service.GenerateToken(coordinator)
	require.NoError(t, err)

	claims, err := service.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "COORD-001", claims.UserID)
	assert.Equal(t, types.RoleCoordinator, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	require.NotNil(t, claims.IssuedAt)
}

func TestTokenService_ParseToken_Empty(t *testing.T) {
	service := setupTestTokenService(t, 24)

	_, err := service.ParseToken("")
	assert.Equal(t, types.AuthMissing, authKind(t, err))
}

func TestTokenService_ParseToken_Expired(t *testing.T) {
	service := setupTestTokenService(t, 1)
	service.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := service.GenerateToken(coordinator)
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.ParseToken(token)
	assert.Equal(t, types.AuthExpired, authKind(t, err))
}

func TestTokenService_ParseToken_Invalid(t *testing.T) {
	service := setupTestTokenService(t, 24)

	other := NewTokenService(&config.JWTConfig{Secret: "a-completely-different-secret-value", ExpirationHours: 24})
	foreign, _, err := other.GenerateToken(coordinator)
	require.NoError(t, err)

	hs384, err := jwt.NewWithClaims(jwt.SigningMethodHS384, &Claims{
		UserID: coordinator.ID,
		Role:   coordinator.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: coordinator.ID}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong secret", token: foreign},
		{name: "unexpected algorithm", token: hs384},
		{name: "alg none", token: none},
		{name: "missing user id", token: noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ParseToken(tt.token)
			assert.Equal(t, types.AuthInvalid, authKind(t, err))
		})
	}
}

func TestTokenService_ParseToken_Tampered(t *testing.T) {
	service := setupTestTokenService(t, 24)

	token, _, err := service.GenerateToken(coordinator)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	_, err = service.ParseToken(tampered)
	assert.Equal(t, types.AuthInvalid, authKind(t, err))
}
