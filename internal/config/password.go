// Package config provides password configuration and hashing functionality.
package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for hashing directory credentials.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing

	// dummyHash is compared against when the identity is unknown so that
	// lookups for missing users cost the same as wrong passwords.
	dummyHash []byte
}

// NewPasswordConfig creates a new password configuration from environment variables.
// It reads BCRYPT_COST (default: 12) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	costStr := os.Getenv("BCRYPT_COST")
	if costStr == "" {
		costStr = "12"
	}

	cost, err := strconv.Atoi(costStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
	}

	return NewPasswordConfigWithCost(cost, os.Getenv("PASSWORD_PEPPER"))
}

// NewPasswordConfigWithCost builds a PasswordConfig without reading the environment.
func NewPasswordConfigWithCost(cost int, pepper string) (*PasswordConfig, error) {
	config := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     pepper,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-credential"), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}
	config.dummyHash = dummy

	return config, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

func (c *PasswordConfig) peppered(pw string) []byte {
	return []byte(pw + c.Pepper)
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.peppered(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.peppered(pw)) == nil
}

// BurnComparison spends one bcrypt comparison and always reports false.
func (c *PasswordConfig) BurnComparison(pw string) bool {
	if len(c.dummyHash) > 0 {
		_ = bcrypt.CompareHashAndPassword(c.dummyHash, c.peppered(pw))
	}
	return false
}
