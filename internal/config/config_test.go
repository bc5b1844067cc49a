package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "steam_valuator.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.PriceTTL)
	assert.Equal(t, 5*time.Minute, cfg.ValueTTL)
	assert.Equal(t, 3, cfg.FetchAttempts)
	assert.Equal(t, 1500*time.Millisecond, cfg.FetchDelay)
	assert.False(t, cfg.HasCSFloat())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CSFLOAT_API_KEY", "abc123")
	t.Setenv("PRICE_CACHE_TTL", "30m")
	t.Setenv("FETCH_ATTEMPTS", "5")

	cfg := Load()

	assert.True(t, cfg.HasCSFloat())
	assert.Equal(t, 30*time.Minute, cfg.PriceTTL)
	assert.Equal(t, 5, cfg.FetchAttempts)
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("FETCH_ATTEMPTS", "lots")
	t.Setenv("VALUE_CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 3, cfg.FetchAttempts)
	assert.Equal(t, 5*time.Minute, cfg.ValueTTL)
}
