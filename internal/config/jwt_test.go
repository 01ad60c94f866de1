package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	cfg, err := NewJWTConfig("development")
	require.NoError(t, err)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 24, cfg.ExpirationHours, "should use default expiration of 24 hours")
	assert.False(t, cfg.Insecure)
}

func TestNewJWTConfig_InsecureDefaultOutsideProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	cfg, err := NewJWTConfig("development")
	require.NoError(t, err)
	assert.Equal(t, DefaultJWTSecret, cfg.Secret)
	assert.True(t, cfg.Insecure)
}

func TestNewJWTConfig_ProductionRequiresSecret(t *testing.T) {
	for _, env := range []string{EnvironmentProduction, "Production", "PRODUCTION"} {
		t.Run(env, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")

			_, err := NewJWTConfig(env)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "JWT_SECRET")
		})
	}
}

func TestNewJWTConfig_CustomExpiration(t *testing.T) {
	tests := []struct {
		name          string
		expiration    string
		expectedHours int
		wantErr       bool
	}{
		{name: "one hour", expiration: "1", expectedHours: 1},
		{name: "one week", expiration: "168", expectedHours: 168},
		{name: "zero", expiration: "0", wantErr: true},
		{name: "negative", expiration: "-3", wantErr: true},
		{name: "not a number", expiration: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "test-secret-key")
			t.Setenv("JWT_EXPIRATION_HOURS", tt.expiration)

			cfg, err := NewJWTConfig("development")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedHours, cfg.ExpirationHours)
		})
	}
}
