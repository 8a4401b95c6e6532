// Package config reads service settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	HTTPAddr        string
	Store           string
	DBPath          string
	RedisAddr       string // empty disables cart persistence
	CartTTL         time.Duration
	CartPrefix      string
	CartIdleTTL     time.Duration // in-memory lifetime of an untouched cart when redis holds it
	JWTSecret       string
	JWTIssuer       string
	ShutdownTimeout time.Duration
	LogLevel        string
	Env             string
	Seed            bool
	DefaultPageSize int
}

// Load reads the environment, falling back to defaults for unset or
// malformed values. Problems worth logging are returned as warnings.
func Load() (Config, []string) {
	var warnings []string
	warn := func(format string, args ...any) {
		warnings = append(warnings, fmt.Sprintf(format, args...))
	}

	cfg := Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":9091"),
		Store:           strings.ToLower(getEnv("STORE", StoreMemory)),
		DBPath:          getEnv("DB_PATH", "./suncoast.db"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CartTTL:         getEnvDuration("CART_TTL", 72*time.Hour, warn),
		CartPrefix:      getEnv("CART_PREFIX", "cart:"),
		CartIdleTTL:     getEnvDuration("CART_IDLE_TTL", 2*time.Hour, warn),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTIssuer:       getEnv("JWT_ISSUER", "suncoast"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second, warn),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Env:             strings.ToLower(getEnv("APP_ENV", "production")),
		Seed:            getEnvBool("SEED", true, warn),
		DefaultPageSize: getEnvInt("DEFAULT_PAGE_SIZE", 24, warn),
	}

	if cfg.Store != StoreMemory && cfg.Store != StoreSQLite {
		warn("unknown STORE %q, using %s", cfg.Store, StoreMemory)
		cfg.Store = StoreMemory
	}
	if cfg.JWTSecret == "" {
		warn("JWT_SECRET is not set, admin routes will reject every token")
	}
	return cfg, warnings
}

func (c Config) Development() bool {
	return c.Env == "dev" || c.Env == "development"
}

// getEnv returns environment variable value or default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int, warn func(string, ...any)) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		warn("invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration, warn func(string, ...any)) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		warn("invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool, warn func(string, ...any)) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		warn("invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}
