package core

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != 3000 {
		t.Errorf("expected default port 3000, got %d", config.Server.Port)
	}
	if config.Ingestion.RefreshInterval != 10*time.Second {
		t.Errorf("expected default refresh interval 10s, got %v", config.Ingestion.RefreshInterval)
	}
	if config.Ingestion.FetchTimeout != 30*time.Second {
		t.Errorf("expected default fetch timeout 30s, got %v", config.Ingestion.FetchTimeout)
	}
	if config.Database.Path == "" {
		t.Error("expected a default database path")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ARTEMIS_PORT", "8080")
	t.Setenv("ARTEMIS_REFRESH_INTERVAL", "30s")
	t.Setenv("ARTEMIS_DB_PATH", "/tmp/other.db")
	t.Setenv("ARTEMIS_LOG_LEVEL", "debug")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", config.Server.Port)
	}
	if config.Ingestion.RefreshInterval != 30*time.Second {
		t.Errorf("expected refresh interval 30s, got %v", config.Ingestion.RefreshInterval)
	}
	if config.Database.Path != "/tmp/other.db" {
		t.Errorf("unexpected database path %q", config.Database.Path)
	}
	if config.LogLevel != slog.LevelDebug {
		t.Errorf("expected debug log level, got %v", config.LogLevel)
	}
}

func TestLoadConfigBareSecondsInterval(t *testing.T) {
	t.Setenv("ARTEMIS_REFRESH_INTERVAL", "15")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Ingestion.RefreshInterval != 15*time.Second {
		t.Errorf("expected 15s, got %v", config.Ingestion.RefreshInterval)
	}
}

func TestConfigValidation(t *testing.T) {
	t.Setenv("ARTEMIS_PORT", "99999")

	if _, err := LoadConfig(); err == nil {
		t.Error("expected validation error for out-of-range port")
	}
}
