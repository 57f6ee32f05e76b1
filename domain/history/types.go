package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry points at one persisted structure collection and records whether
// it is the currently active layout. Exactly one entry is current at any
// time; the history repository owns that invariant and is the sole writer
// of the is_current flag.
type Entry struct {
	ID             uuid.UUID `json:"id" db:"id"`
	CollectionName string    `json:"collection_name" db:"collection_name"`
	IsCurrent      bool      `json:"is_current" db:"is_current"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
