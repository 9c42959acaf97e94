package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_MODE", "dev")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppMode)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 15, cfg.JWT.AccessTokenMins)
	assert.Equal(t, 7, cfg.JWT.RefreshTokenDays)
	assert.Equal(t, "0 3 * * *", cfg.Cron.TokenCleanupSpec)
	assert.Equal(t, RateLimitConfig{APIPerMinute: 100, AuthPerMinute: 5, StrictPerMinute: 3}, cfg.RateLimit)
	assert.False(t, cfg.IsProd())
	assert.Same(t, cfg, AppConfig)
}

func TestLoad_ModeSpecificValues(t *testing.T) {
	t.Setenv("APP_MODE", " dev ")
	t.Setenv("DEV_DB_DRIVER", "MySQL")
	t.Setenv("DEV_JWT_SECRET", "dev-secret")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("SEED_ADMIN_EMAIL", "Owner@VPCS.test")
	t.Setenv("SEED_CODE_MANAGEMENT", "482913")
	t.Setenv("RATE_LIMIT_AUTH", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "3306", cfg.Database.Port)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "owner@vpcs.test", cfg.Seed.AdminEmail)
	assert.Equal(t, map[string]string{"Management": "482913"}, cfg.Seed.RoleCodes)
	assert.Equal(t, 0, cfg.RateLimit.AuthPerMinute)
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("APP_MODE", "staging")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid APP_MODE")
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_MODE", "prod")
	t.Setenv("PROD_JWT_SECRET", "")
	t.Setenv("PROD_JWT_REFRESH_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "PROD_JWT_SECRET")
}
