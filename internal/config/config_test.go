package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvFallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, "stridegoals.db", getEnv("STRIDEGOALS_TEST_MISSING_DB", "stridegoals.db"))
	assert.Equal(t, "8080", getEnv("STRIDEGOALS_TEST_MISSING_PORT", "8080"))
}

func TestGetEnvPrefersSetValue(t *testing.T) {
	t.Setenv("STRIDEGOALS_TEST_PORT", "9090")
	assert.Equal(t, "9090", getEnv("STRIDEGOALS_TEST_PORT", "8080"))

	// Set-but-empty counts as set.
	t.Setenv("STRIDEGOALS_TEST_EMPTY", "")
	assert.Equal(t, "", getEnv("STRIDEGOALS_TEST_EMPTY", "fallback"))
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/stridegoals")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	assert.Equal(t, "postgres://localhost/stridegoals", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "3", cfg.RedisDB)
}
