package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CSFloatAPIKey string
	Port          string
	Environment   string

	PriceTTL      time.Duration
	ValueTTL      time.Duration
	FetchAttempts int
	FetchDelay    time.Duration
	FetchTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		DatabaseURL:   getEnv("DATABASE_URL", "steam_valuator.db"),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CSFloatAPIKey: getEnv("CSFLOAT_API_KEY", ""),
		Port:          getEnv("PORT", "8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		PriceTTL:      getEnvDuration("PRICE_CACHE_TTL", time.Hour),
		ValueTTL:      getEnvDuration("VALUE_CACHE_TTL", 5*time.Minute),
		FetchAttempts: getEnvInt("FETCH_ATTEMPTS", 3),
		FetchDelay:    getEnvDuration("FETCH_BASE_DELAY", 1500*time.Millisecond),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
	}
}

// HasCSFloat reports whether a CSFloat credential is configured. Its presence
// switches the pricing source for the lifetime of the process.
func (c *Config) HasCSFloat() bool {
	return c.CSFloatAPIKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
