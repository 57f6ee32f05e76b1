package ports

import (
	"context"

	"packetstruct/domain/history"

	"github.com/google/uuid"
)

// HistoryRepository defines the interface for the structure history store.
// Implementations must leave exactly one entry current as the stable end
// state of every mutation.
type HistoryRepository interface {
	// RecordNewCurrent clears the current flag on all existing entries and
	// inserts a new current entry for the collection, atomically
	RecordNewCurrent(ctx context.Context, collectionName string) (*history.Entry, error)

	// GetCurrent returns the entry marked current
	GetCurrent(ctx context.Context) (*history.Entry, error)

	// ListAll returns every entry in insertion order
	ListAll(ctx context.Context) ([]*history.Entry, error)

	// SetCurrentByID promotes an existing entry to current, atomically
	SetCurrentByID(ctx context.Context, id uuid.UUID) error
}
