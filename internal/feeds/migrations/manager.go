package migrations

import (
	"context"
	"fmt"

	"github.com/tatupesonen/artemis/internal/core"
)

// Manager handles feed schema migrations
type Manager struct {
	migrationService *core.MigrationService
	logger           *core.Logger
}

// NewManager creates a new feed migration manager
func NewManager(db *core.Database, logger *core.Logger) *Manager {
	return &Manager{
		migrationService: core.NewMigrationService(db, logger),
		logger:           logger,
	}
}

// Migrations returns all feed migrations in order
func (m *Manager) Migrations() []core.Migration {
	return []core.Migration{
		Migration001CreateFeedTables,
	}
}

// Migrate applies all pending feed migrations
func (m *Manager) Migrate(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	for _, migration := range m.Migrations() {
		if err := m.migrationService.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	m.logger.Info("Feed migrations completed", "count", len(m.Migrations()))
	return nil
}

// Applied returns the migrations recorded as applied
func (m *Manager) Applied(ctx context.Context) ([]core.Migration, error) {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrations: %w", err)
	}
	return m.migrationService.GetAppliedMigrations(ctx)
}
