package migration

import (
	"context"

	"packetstruct/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createStructureRecordsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create structure_records table")
	}

	if err := r.createStructureHistoryTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create structure_history table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createStructureRecordsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS structure_records (
			id UUID PRIMARY KEY,
			collection_name TEXT NOT NULL,
			position INT NOT NULL,
			document JSONB NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			UNIQUE (collection_name, position)
		)
	`)
	return err
}

func (r *MigrationRunner) createStructureHistoryTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS structure_history (
			id UUID PRIMARY KEY,
			seq BIGSERIAL,
			collection_name TEXT NOT NULL,
			is_current BOOLEAN NOT NULL DEFAULT false,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_structure_records_collection ON structure_records (collection_name)`,
		`CREATE INDEX IF NOT EXISTS idx_structure_history_current ON structure_history (is_current) WHERE is_current`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
