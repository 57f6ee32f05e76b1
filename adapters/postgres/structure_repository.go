package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"packetstruct/domain/structure"
	"packetstruct/internal/errors"
	"packetstruct/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// structureRepository implements the StructureRepository interface
type structureRepository struct {
	db *sqlx.DB
}

// NewStructureRepository creates a new structure repository
func NewStructureRepository(db *sqlx.DB) ports.StructureRepository {
	return &structureRepository{db: db}
}

// Save writes every group document of a structure under the collection
// name, in group order, inside one transaction. A failure persists
// nothing.
func (r *structureRepository) Save(ctx context.Context, collectionName string, st structure.Structure) error {
	docs, err := st.Documents()
	if err != nil {
		return fmt.Errorf("failed to marshal structure groups: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	query := `INSERT INTO structure_records (id, collection_name, position, document)
		VALUES ($1, $2, $3, $4)`

	for position, doc := range docs {
		if _, err := tx.ExecContext(ctx, query, uuid.New(), collectionName, position, []byte(doc)); err != nil {
			return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to insert group %d: %w", position, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to commit structure: %w", err))
	}

	return nil
}

// GetByCollection returns the stored group documents of one collection in
// group order. An unknown or empty collection is a not-found error.
func (r *structureRepository) GetByCollection(ctx context.Context, collectionName string) ([]json.RawMessage, error) {
	query := `SELECT document FROM structure_records
		WHERE collection_name = $1
		ORDER BY position`

	var raw [][]byte
	if err := r.db.SelectContext(ctx, &raw, query, collectionName); err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to query structure records: %w", err))
	}

	if len(raw) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("structure %q", collectionName))
	}

	docs := make([]json.RawMessage, len(raw))
	for i, doc := range raw {
		docs[i] = json.RawMessage(doc)
	}
	return docs, nil
}
