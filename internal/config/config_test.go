package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var trackedKeys = []string{
	"APP_NAME", "APP_ENV", "PORT", "SERVER_PORT", "SERVER_HOST",
	"STORE_URL", "MONGODB_URI", "DATABASE_URL", "STORE_DATABASE",
	"JWT_SECRET", "JWT_ISSUER", "TOKEN_TTL", "BCRYPT_COST",
	"REDIS_URL", "LOGIN_MAX_ATTEMPTS", "LOGIN_ATTEMPT_WINDOW",
	"REQUEST_TIMEOUT_SECONDS", "HEALTH_CHECK_INTERVAL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range trackedKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "memory://")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "taskpulse", cfg.AppName)
	assert.Equal(t, "4000", cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:4000", cfg.Address())
	assert.Equal(t, 1<<20, cfg.HTTP.MaxRequestBody)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
	assert.Equal(t, 168*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, 10, cfg.Password.Cost)
	assert.Equal(t, 5, cfg.Throttle.MaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Throttle.Window)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
}

func TestLoadStoreURLFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/tasks")
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "mongodb://localhost:27017/tasks", cfg.Store.URL)

	t.Setenv("MONGODB_URI", "")
	cfg, err = Load()
	require.NoError(t, err)
	driver, err := cfg.Store.Driver()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, driver)
}

func TestLoadPortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "memory://")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.HTTP.Port)

	t.Setenv("PORT", "5000")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.HTTP.Port)
}

func TestLoadMissingStoreURL(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_URL")
}

func TestLoadProductionSecretRules(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "memory://")
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")

	t.Setenv("JWT_SECRET", "short")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	_, err = Load()
	require.NoError(t, err)
}

func TestLoadJoinsErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_URL", "ftp://example.com")
	t.Setenv("BCRYPT_COST", "2")
	t.Setenv("PORT", "http")

	_, err := Load()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "unsupported scheme")
	assert.Contains(t, msg, "BCRYPT_COST")
	assert.Contains(t, msg, "PORT must be numeric")
}

func TestStoreDriver(t *testing.T) {
	cases := map[string]string{
		"mongodb://localhost:27017":         DriverMongo,
		"mongodb+srv://cluster.example.net": DriverMongo,
		"postgres://u:p@localhost/db":       DriverPostgres,
		"postgresql://localhost/db":         DriverPostgres,
		"bolt://./data/taskpulse.db":        DriverBolt,
		"memory://":                         DriverMemory,
	}
	for raw, want := range cases {
		got, err := StoreConfig{URL: raw}.Driver()
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := StoreConfig{URL: "redis://localhost"}.Driver()
	assert.Error(t, err)
}

func TestGetDurationAcceptsSeconds(t *testing.T) {
	t.Setenv("SOME_TIMEOUT", "7")
	assert.Equal(t, 7*time.Second, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, getDuration("SOME_TIMEOUT", time.Second))

	t.Setenv("SOME_TIMEOUT", "garbage")
	assert.Equal(t, time.Second, getDuration("SOME_TIMEOUT", time.Second))
}
