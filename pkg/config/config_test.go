package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/amirasaad/affiliates/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("testdata/does-not-exist.env", slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.10,0.05,0.02", cfg.Commission.Rates)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.False(t, cfg.Reconcile.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.Reconcile.Interval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("COMMISSION_RATES", "0.20,0.10")
	t.Setenv("RECONCILE_ENABLED", "true")
	t.Setenv("RECONCILE_INTERVAL", "1h")
	t.Setenv("DATABASE_URL", "postgres://localhost/affiliates")

	cfg, err := config.Load("testdata/does-not-exist.env", slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.20,0.10", cfg.Commission.Rates)
	assert.True(t, cfg.Reconcile.Enabled)
	assert.Equal(t, time.Hour, cfg.Reconcile.Interval)
	assert.Equal(t, "postgres://localhost/affiliates", cfg.DB.Url)
}
