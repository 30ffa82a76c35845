package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "auto", cfg.StorageMode)
	assert.Equal(t, "data/links.json", cfg.DataFile)
	assert.Equal(t, 10, cfg.LoginRatePerMinute)
	assert.Empty(t, cfg.AllowedEmails)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.GoogleEnabled())
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "a-long-random-value")
	t.Setenv("TRUST_PROXY_HEADERS", "true")
	t.Setenv("STORAGE_MODE", " Memory ")
	t.Setenv("DATA_FILE", "/tmp/x.json")
	t.Setenv("ALLOWED_EMAILS", "A@example.com, b@example.com,,")
	t.Setenv("LOGIN_RATE_PER_MINUTE", "3")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.StorageMode)
	assert.Equal(t, "/tmp/x.json", cfg.DataFile)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.Equal(t, 3, cfg.LoginRatePerMinute)
	assert.True(t, cfg.TrustProxyHeaders)
}

func TestProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := FromViper(viper.New())
	assert.Error(t, err, "default secret")

	t.Setenv("JWT_SECRET", "secret")
	_, err = FromViper(viper.New())
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "")
	_, err = FromViper(viper.New())
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0b1f2c9e7d")
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "0b1f2c9e7d", cfg.JWTSecret)
}

func TestInvalidStorageMode(t *testing.T) {
	t.Setenv("STORAGE_MODE", "postgres")

	_, err := FromViper(viper.New())
	assert.Error(t, err)
}
