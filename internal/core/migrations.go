package core

import (
	"context"
	"fmt"
	"time"
)

// Migration represents a versioned database migration
type Migration struct {
	Version     int
	Name        string
	Description string
	UpSQL       string
	AppliedAt   time.Time
}

// MigrationService applies versioned migrations exactly once
type MigrationService struct {
	db     *Database
	logger *Logger
}

// NewMigrationService creates a new migration service
func NewMigrationService(db *Database, logger *Logger) *MigrationService {
	return &MigrationService{
		db:     db,
		logger: logger,
	}
}

// InitMigrations initializes the migrations table
func (m *MigrationService) InitMigrations(ctx context.Context) error {
	createMigrationsTable := `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);`

	_, err := m.db.ExecWithTimeout(ctx, createMigrationsTable)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	return nil
}

// GetAppliedMigrations returns all applied migrations in version order
func (m *MigrationService) GetAppliedMigrations(ctx context.Context) ([]Migration, error) {
	readCtx, cancel := m.db.ReadContext(ctx)
	defer cancel()

	rows, err := m.db.QueryContext(readCtx, `SELECT version, name, description, applied_at FROM migrations ORDER BY version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	var migrations []Migration
	for rows.Next() {
		var migration Migration
		if err := rows.Scan(&migration.Version, &migration.Name, &migration.Description, &migration.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration: %w", err)
		}
		migrations = append(migrations, migration)
	}

	return migrations, rows.Err()
}

// IsMigrationApplied checks if a migration has been applied
func (m *MigrationService) IsMigrationApplied(ctx context.Context, version int) (bool, error) {
	readCtx, cancel := m.db.ReadContext(ctx)
	defer cancel()

	var count int
	err := m.db.QueryRowContext(readCtx, `SELECT COUNT(*) FROM migrations WHERE version = ?`, version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration status: %w", err)
	}

	return count > 0, nil
}

// ApplyMigration applies a single migration inside a transaction.
// Applying an already-applied migration is a no-op.
func (m *MigrationService) ApplyMigration(ctx context.Context, migration Migration) error {
	applied, err := m.IsMigrationApplied(ctx, migration.Version)
	if err != nil {
		return err
	}
	if applied {
		m.logger.Debug("Migration already applied", "version", migration.Version, "name", migration.Name)
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if _, err = tx.ExecContext(ctx, migration.UpSQL); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to execute migration %d (%s): %w", migration.Version, migration.Name, err)
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO migrations (version, name, description) VALUES (?, ?, ?)`,
		migration.Version, migration.Name, migration.Description)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
	}

	m.logger.Info("Applied migration", "version", migration.Version, "name", migration.Name)
	return nil
}
