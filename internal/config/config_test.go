package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npereira/centavo/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "Centavo", cfg.App.Name)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 10, cfg.DB.MaxOpenConns)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.Delay)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_NAME", "centavo_test")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "centavo_test", cfg.DB.Name)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
}

func TestConnectionString(t *testing.T) {
	t.Setenv("DB_USER", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "centavo")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://u:p@db:5433/centavo?sslmode=disable", cfg.ConnectionString())
}
