// Package config loads the immutable application configuration from the
// environment, with an optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the full application configuration. It is loaded once at startup
// and passed by value into the components that need it; nothing re-reads the
// environment afterwards.
type Config struct {
	Server   Server
	Provider Provider
	Cache    Cache
	Store    Store
	Analysis Analysis
	LogLevel string
}

// Server holds HTTP server settings.
type Server struct {
	Port string
}

// Provider holds the market-data API settings. SymbolSuffix is appended to
// every symbol before the provider call (e.g. ".BSE").
type Provider struct {
	APIKey          string
	BaseURL         string
	SymbolSuffix    string
	TimeoutSeconds  int
	RequestsPerSec  int
	MaxRetrySeconds int
}

// Cache controls the cache-aside behavior of the orchestrator.
type Cache struct {
	Enabled    bool
	TTLMinutes int
}

// Store selects and configures the document-store backend.
type Store struct {
	// Driver is one of: memory, postgres, redis.
	Driver        string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Analysis holds the default lookback window for pattern analysis.
type Analysis struct {
	LookbackDays int
}

// Load reads configuration from environment variables, falling back to a
// .env file when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	cfg := &Config{
		Server: Server{
			Port: getEnvWithDefault("SERVER_PORT", "8080"),
		},
		Provider: Provider{
			APIKey:          os.Getenv("ALPHAVANTAGE_API_KEY"),
			BaseURL:         getEnvWithDefault("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query"),
			SymbolSuffix:    getEnvWithDefault("SYMBOL_SUFFIX", ".BSE"),
			TimeoutSeconds:  getEnvIntWithDefault("REQUEST_TIMEOUT", 30),
			RequestsPerSec:  getEnvIntWithDefault("PROVIDER_REQUESTS_PER_SEC", 5),
			MaxRetrySeconds: getEnvIntWithDefault("PROVIDER_MAX_RETRY_SECONDS", 30),
		},
		Cache: Cache{
			Enabled:    getEnvBoolWithDefault("CACHE_ENABLED", true),
			TTLMinutes: getEnvIntWithDefault("CACHE_TTL_MINUTES", 60),
		},
		Store: Store{
			Driver:        getEnvWithDefault("STORE_DRIVER", "memory"),
			PostgresDSN:   os.Getenv("POSTGRES_DSN"),
			RedisAddr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       getEnvIntWithDefault("REDIS_DB", 0),
		},
		Analysis: Analysis{
			LookbackDays: getEnvIntWithDefault("ANALYSIS_LOOKBACK_DAYS", 30),
		},
		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
