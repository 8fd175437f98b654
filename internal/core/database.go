package core

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// QueryTimeout bounds every store operation so a stuck query cannot
// hold a refresh worker forever.
const QueryTimeout = 30 * time.Second

// Database wraps sql.DB with query timeouts and lifecycle logging.
// The handle is safe for concurrent use and is shared by the scheduler,
// every refresh worker and the HTTP handlers.
type Database struct {
	*sql.DB
	logger *Logger
}

// OpenDatabase opens the sqlite database at path, creating the parent
// directory if needed. WAL mode keeps concurrent readers from blocking
// the writers spawned by overlapping refresh cycles.
func OpenDatabase(path string, logger *Logger) (*Database, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewDatabase(db, logger), nil
}

// NewDatabase creates a database wrapper around an existing handle
func NewDatabase(db *sql.DB, logger *Logger) *Database {
	return &Database{
		DB:     db,
		logger: logger,
	}
}

// ExecWithTimeout executes a statement bounded by QueryTimeout
func (db *Database) ExecWithTimeout(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	execCtx, cancel := context.WithTimeout(ctx, QueryTimeout)
	defer cancel()

	return db.ExecContext(execCtx, query, args...)
}

// ReadContext derives a context bounded by QueryTimeout. Callers must
// hold the cancel func until all returned rows have been scanned.
func (db *Database) ReadContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, QueryTimeout)
}

// Close closes the database connection
func (db *Database) Close() error {
	db.logger.Info("Closing database connection")
	return db.DB.Close()
}
