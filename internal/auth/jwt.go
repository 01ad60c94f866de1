// Package auth implements the authentication gate: credential checks,
// bearer token issuance and validation, and role enforcement.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonathan/accreditrack/internal/config"
	"github.com/jonathan/accreditrack/internal/types"
)

// Claims represents JWT claims with the user identity and role.
type Claims struct {
	UserID string     `json:"user_id"`
	Role   types.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HS256 tokens.
type TokenService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewTokenService creates a new token service with the given configuration.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		config: cfg,
		now:    time.Now,
	}
}

// GenerateToken signs a token for the user and returns it with its expiry.
func (s *TokenService) GenerateToken(user types.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(time.Duration(s.config.ExpirationHours) * time.Hour)

	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiresAt.UTC(), nil
}

// ParseToken verifies the signature and time claims of a token.
// Failures are reported as *types.ErrAuth.
func (s *TokenService) ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, &types.ErrAuth{Kind: types.AuthMissing}
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, &types.ErrAuth{Kind: types.AuthExpired}
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, &types.ErrAuth{Kind: types.AuthInvalid, Message: "invalid token signature"}
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, &types.ErrAuth{Kind: types.AuthInvalid, Message: "malformed token"}
		}
		return nil, &types.ErrAuth{Kind: types.AuthInvalid}
	}

	if !token.Valid || claims.UserID == "" {
		return nil, &types.ErrAuth{Kind: types.AuthInvalid}
	}

	return claims, nil
}
