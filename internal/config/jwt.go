// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultJWTSecret is used only outside production when JWT_SECRET is unset.
const DefaultJWTSecret = "accreditrak-secret-key-2025"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
	// Insecure is set when Secret fell back to DefaultJWTSecret.
	Insecure bool
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET and JWT_EXPIRATION_HOURS (default: 24). A missing
// secret is an error in production and falls back to DefaultJWTSecret
// everywhere else; callers should warn when Insecure is set.
func NewJWTConfig(environment string) (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	insecure := false
	if secret == "" {
		if strings.EqualFold(environment, EnvironmentProduction) {
			return nil, fmt.Errorf("JWT_SECRET is required in production")
		}
		secret = DefaultJWTSecret
		insecure = true
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_HOURS")
	if expirationStr == "" {
		expirationStr = "24"
	}

	expirationHours, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_HOURS: %v", err)
	}

	config := &JWTConfig{
		Secret:          secret,
		ExpirationHours: expirationHours,
		Insecure:        insecure,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
