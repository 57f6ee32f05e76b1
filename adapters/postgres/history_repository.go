package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"packetstruct/domain/history"
	"packetstruct/internal/errors"
	"packetstruct/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// historyRepository implements the HistoryRepository interface. The
// clear-all-then-set-one sequence runs inside a single transaction, so a
// concurrent reader never observes zero or two current entries.
type historyRepository struct {
	db *sqlx.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sqlx.DB) ports.HistoryRepository {
	return &historyRepository{db: db}
}

// RecordNewCurrent demotes every existing entry and inserts a new current
// entry for the collection, atomically.
func (r *historyRepository) RecordNewCurrent(ctx context.Context, collectionName string) (*history.Entry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE structure_history SET is_current = false WHERE is_current`); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to clear current flags: %w", err))
	}

	entry := &history.Entry{
		ID:             uuid.New(),
		CollectionName: collectionName,
		IsCurrent:      true,
		CreatedAt:      time.Now().UTC(),
	}

	query := `INSERT INTO structure_history (id, collection_name, is_current, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, query, entry.ID, entry.CollectionName, entry.IsCurrent, entry.CreatedAt); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to insert history entry: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to commit history update: %w", err))
	}

	return entry, nil
}

// GetCurrent returns the entry marked current.
func (r *historyRepository) GetCurrent(ctx context.Context) (*history.Entry, error) {
	query := `SELECT id, collection_name, is_current, created_at
		FROM structure_history WHERE is_current = true`

	var entry history.Entry
	if err := r.db.GetContext(ctx, &entry, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("current structure")
		}
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to get current entry: %w", err))
	}

	return &entry, nil
}

// ListAll returns every history entry in insertion order.
func (r *historyRepository) ListAll(ctx context.Context) ([]*history.Entry, error) {
	query := `SELECT id, collection_name, is_current, created_at
		FROM structure_history ORDER BY seq`

	var entries []*history.Entry
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to list history entries: %w", err))
	}

	if len(entries) == 0 {
		return nil, errors.NotFound("structure history")
	}

	return entries, nil
}

// SetCurrentByID promotes an existing entry to current, atomically.
func (r *historyRepository) SetCurrentByID(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `UPDATE structure_history SET is_current = false WHERE is_current`); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to clear current flags: %w", err))
	}

	result, err := tx.ExecContext(ctx, `UPDATE structure_history SET is_current = true WHERE id = $1`, id)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to promote history entry: %w", err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rowsAffected == 0 {
		return errors.NotFound(fmt.Sprintf("history entry %s", id))
	}

	if err := tx.Commit(); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to commit history update: %w", err))
	}

	return nil
}
