package app

import (
	"os"
	"strconv"
	"time"

	"github.com/harborlane/sheetrate/internal/rates"
	"github.com/harborlane/sheetrate/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim for session tokens
	BootstrapToken string // Optional: token required to perform bootstrap

	RateAPIBase       string // Base URL of the exchange-rate REST API
	WorkbookBridgeURL string // Optional: URL of the task-pane bridge; empty uses the in-memory host

	SessionTTL           time.Duration // Session token lifetime (default: 12h)
	DatabaseFile         string        // Path to SQLite database file (default: ./sheetrate.db)
	PepperFile           string        // Path to the password-hashing pepper file (default: ./pepper)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session cleanup interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("SHEETRATE_ISSUER", "sheetrate"),
		BootstrapToken:       os.Getenv("BOOTSTRAP_TOKEN"),
		RateAPIBase:          getEnvOrDefault("RATE_API_BASE", rates.DefaultBaseURL),
		WorkbookBridgeURL:    os.Getenv("WORKBOOK_BRIDGE_URL"),
		SessionTTL:           getEnvDurationOrDefault("SESSION_TTL", jwtx.DefaultSessionTTL),
		DatabaseFile:         getEnvOrDefault("DATABASE_FILE", "sheetrate.db"),
		PepperFile:           getEnvOrDefault("PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Accept plain integers as minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
