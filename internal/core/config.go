package core

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents the main configuration for artemis
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Ingestion IngestionConfig `json:"ingestion"`
	LogLevel  slog.Level      `json:"log_level"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Path string `json:"path"`
}

// IngestionConfig contains feed ingestion configuration
type IngestionConfig struct {
	RefreshInterval time.Duration `json:"refresh_interval"`
	FetchTimeout    time.Duration `json:"fetch_timeout"`
	UserAgent       string        `json:"user_agent"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Host: getEnvOrDefault("ARTEMIS_HOST", "0.0.0.0"),
			Port: getEnvAsInt("ARTEMIS_PORT", 3000),
		},
		Database: DatabaseConfig{
			Path: getEnvOrDefault("ARTEMIS_DB_PATH", "./artemis.db"),
		},
		Ingestion: IngestionConfig{
			RefreshInterval: getEnvAsDuration("ARTEMIS_REFRESH_INTERVAL", 10*time.Second),
			FetchTimeout:    getEnvAsDuration("ARTEMIS_FETCH_TIMEOUT", 30*time.Second),
			UserAgent:       getEnvOrDefault("ARTEMIS_USER_AGENT", "artemis/1.0 (feed aggregator)"),
		},
		LogLevel: getEnvAsLogLevel("ARTEMIS_LOG_LEVEL", slog.LevelInfo),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if c.Ingestion.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive: %v", c.Ingestion.RefreshInterval)
	}

	if c.Ingestion.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive: %v", c.Ingestion.FetchTimeout)
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		// Bare numbers are treated as seconds
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

func getEnvAsLogLevel(key string, defaultValue slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultValue
	}
}
