package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "STORE", "REDIS_ADDR", "CART_TTL", "CART_IDLE_TTL", "SEED", "APP_ENV", "DEFAULT_PAGE_SIZE"} {
		t.Setenv(k, "")
	}
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.Equal(t, ":9091", cfg.HTTPAddr)
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 72*time.Hour, cfg.CartTTL)
	assert.Equal(t, 2*time.Hour, cfg.CartIdleTTL)
	assert.True(t, cfg.Seed)
	assert.Equal(t, 24, cfg.DefaultPageSize)
	assert.False(t, cfg.Development())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE", "SQLite")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("SEED", "false")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, warnings := Load()
	assert.Empty(t, warnings)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.False(t, cfg.Seed)
	assert.True(t, cfg.Development())
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("STORE", "mongo")
	t.Setenv("CART_TTL", "soon")
	t.Setenv("DEFAULT_PAGE_SIZE", "many")
	t.Setenv("SEED", "maybe")
	t.Setenv("JWT_SECRET", "")

	cfg, warnings := Load()
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.Equal(t, 72*time.Hour, cfg.CartTTL)
	assert.Equal(t, 24, cfg.DefaultPageSize)
	assert.True(t, cfg.Seed)
	assert.Len(t, warnings, 5)
}
