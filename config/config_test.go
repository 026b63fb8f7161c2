package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("APP_PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CARRY_FORWARD_STRATEGY", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "extend", cfg.Ledger.CarryForwardStrategy)
	assert.Equal(t, "admin", cfg.Auth.AdminUsername)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CARRY_FORWARD_STRATEGY", "clone")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "clone", cfg.Ledger.CarryForwardStrategy)
}

func TestValidate(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := FromEnv()
	assert.EqualError(t, err, "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "short")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef")
	t.Setenv("JWT_TTL_HOURS", "0")
	_, err = FromEnv()
	assert.EqualError(t, err, "JWT_TTL_HOURS must be positive")
}
