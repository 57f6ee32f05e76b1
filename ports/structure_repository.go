package ports

import (
	"context"
	"encoding/json"

	"packetstruct/domain/structure"
)

// StructureRepository defines the interface for persisted structure collections
type StructureRepository interface {
	// Save writes a whole structure under a fresh collection name in one
	// transaction. Collections are immutable once written.
	Save(ctx context.Context, collectionName string, st structure.Structure) error

	// GetByCollection returns the group documents of one collection in
	// group order
	GetByCollection(ctx context.Context, collectionName string) ([]json.RawMessage, error)
}
