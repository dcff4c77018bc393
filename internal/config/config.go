// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	LogLevel          string
	LogFormat         string
	HeartbeatInterval time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	interval := getEnv("HEARTBEAT_INTERVAL", "30s")
	parsed, err := time.ParseDuration(interval)
	if err != nil {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL must be a valid duration: %w", err)
	}
	if parsed <= 0 {
		return nil, fmt.Errorf("HEARTBEAT_INTERVAL must be positive, got %s", parsed)
	}
	cfg.HeartbeatInterval = parsed

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
