package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port         string
	Env          string // development, staging, production
	APIRateLimit int    // requests per client per minute, 0 disables

	// Upstream market data API
	MarketData MarketDataConfig

	// Redis (result memoization)
	Redis RedisConfig

	// Watchlist refreshed by the scheduler
	Watchlist       []string
	RefreshSchedule string        // cron spec (with seconds field)
	CacheTTL        time.Duration // TTL for memoized analysis results

	// Logging
	LogLevel  string
	LogFormat string
}

// MarketDataConfig holds the upstream stock-data API configuration.
type MarketDataConfig struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	RateLimit int // requests per second against the upstream API

	// Fallback HTML source for fundamentals when the API has no coverage
	FallbackBaseURL string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port:         getEnv("PORT", "8089"),
		Env:          getEnv("ENV", "development"),
		APIRateLimit: getEnvAsInt("API_RATE_LIMIT", 120),

		MarketData: MarketDataConfig{
			BaseURL:         getEnv("MARKETDATA_BASE_URL", "https://api.saham-data.example.com"),
			APIKey:          getEnv("MARKETDATA_API_KEY", ""),
			Timeout:         getEnvAsDuration("MARKETDATA_TIMEOUT", "30s"),
			RateLimit:       getEnvAsInt("MARKETDATA_RATE_LIMIT", 5),
			FallbackBaseURL: getEnv("MARKETDATA_FALLBACK_BASE_URL", ""),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Watchlist:       getEnvAsList("WATCHLIST", "BBCA,BBRI,TLKM,ASII"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "0 0 * * * *"), // hourly
		CacheTTL:        getEnvAsDuration("CACHE_TTL", "5m"),

		LogLevel:  getEnv("LOG_LEVEL", "debug"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.MarketData.BaseURL == "" {
		return fmt.Errorf("MARKETDATA_BASE_URL is required")
	}

	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.MarketData.RateLimit <= 0 {
		return fmt.Errorf("MARKETDATA_RATE_LIMIT must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}

func getEnvAsList(key string, defaultValue string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
