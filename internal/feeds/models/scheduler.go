package models

import (
	"time"
)

// SchedulerConfig holds configuration for the ingestion scheduler
type SchedulerConfig struct {
	RefreshInterval time.Duration `json:"refresh_interval"`
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		RefreshInterval: 10 * time.Second,
	}
}
