package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bidcheck/internal/config"
)

func clearPortEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PORT", "")
	t.Setenv("BIDCHECK_SERVER_PORT", "")
}

func TestLoad_Defaults(t *testing.T) {
	clearPortEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 180*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, int64(50), cfg.Server.MaxBodyMB)
	assert.Equal(t, 3, cfg.FreeTier.Limit)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, 15*time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, uint64(3), cfg.Client.MaxRetries)
	assert.Equal(t, time.Second, cfg.Client.InitialDelay)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, "noop", cfg.Mail.Provider)
	assert.Len(t, cfg.CORS.AllowedOrigins, 3)
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_FREE_TIER_LIMIT", "5")
	t.Setenv("BIDCHECK_GEMINI_MODEL", "gemini-1.5-pro")
	t.Setenv("BIDCHECK_RATE_LIMIT_WINDOW", "1m")
	t.Setenv("BIDCHECK_CLIENT_INITIAL_DELAY", "250ms")
	t.Setenv("BIDCHECK_REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.FreeTier.Limit)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.InitialDelay)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_CORSOriginsSplit(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Port)
}

func TestLoad_ExplicitPortWinsOverPlatformPort(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("BIDCHECK_SERVER_PORT", ":7000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_RejectsNegativeFreeTier(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_FREE_TIER_LIMIT", "-1")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "free_tier.limit")
}

func TestLoad_RejectsNonPositiveRateLimit(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_RATE_LIMIT_MAX_REQUESTS", "0")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit")
}

func TestDBConfig_DSN(t *testing.T) {
	db := config.DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "require"}
	assert.Equal(t, "postgres://u:p@db:5433/n?sslmode=require", db.DSN())
}

func TestLoad_TrustedProxies(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_SERVER_TRUSTED_PROXIES", "10.0.0.1, 172.16.0.0/12")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "172.16.0.0/12"}, cfg.Server.TrustedProxies)
}

func TestLoad_TrustedProxiesDefaultNone(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_SERVER_TRUSTED_PROXIES", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoad_RejectsInvalidTrustedProxy(t *testing.T) {
	clearPortEnv(t)
	t.Setenv("BIDCHECK_SERVER_TRUSTED_PROXIES", "not-an-ip")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "trusted_proxies")
}
