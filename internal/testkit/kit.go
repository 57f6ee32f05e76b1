// Package testkit provides in-memory repository implementations and
// workbook fixtures so service and handler tests run without Postgres or
// a live parser service.
package testkit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"packetstruct/domain/history"
	"packetstruct/domain/structure"
	"packetstruct/internal/errors"
	"packetstruct/ports"

	"github.com/google/uuid"
)

// InMemoryStructureRepository is a map-backed StructureRepository
type InMemoryStructureRepository struct {
	mu          sync.RWMutex
	collections map[string][]json.RawMessage
}

// NewInMemoryStructureRepository creates an empty structure repository
func NewInMemoryStructureRepository() *InMemoryStructureRepository {
	return &InMemoryStructureRepository{collections: make(map[string][]json.RawMessage)}
}

func (r *InMemoryStructureRepository) Save(ctx context.Context, collectionName string, st structure.Structure) error {
	docs, err := st.Documents()
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.collections[collectionName] = docs
	return nil
}

func (r *InMemoryStructureRepository) GetByCollection(ctx context.Context, collectionName string) ([]json.RawMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs, ok := r.collections[collectionName]
	if !ok || len(docs) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("structure %q", collectionName))
	}
	out := make([]json.RawMessage, len(docs))
	copy(out, docs)
	return out, nil
}

// Collections returns the stored collection names
func (r *InMemoryStructureRepository) Collections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.collections))
	for name := range r.collections {
		names = append(names, name)
	}
	return names
}

// InMemoryHistoryRepository is a slice-backed HistoryRepository keeping
// insertion order
type InMemoryHistoryRepository struct {
	mu      sync.Mutex
	entries []*history.Entry
}

// NewInMemoryHistoryRepository creates an empty history repository
func NewInMemoryHistoryRepository() *InMemoryHistoryRepository {
	return &InMemoryHistoryRepository{}
}

func (r *InMemoryHistoryRepository) RecordNewCurrent(ctx context.Context, collectionName string) (*history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		e.IsCurrent = false
	}
	entry := &history.Entry{
		ID:             uuid.New(),
		CollectionName: collectionName,
		IsCurrent:      true,
		CreatedAt:      time.Now().UTC(),
	}
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *InMemoryHistoryRepository) GetCurrent(ctx context.Context) (*history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.entries {
		if e.IsCurrent {
			copied := *e
			return &copied, nil
		}
	}
	return nil, errors.NotFound("current structure")
}

func (r *InMemoryHistoryRepository) ListAll(ctx context.Context) ([]*history.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil, errors.NotFound("structure history")
	}
	out := make([]*history.Entry, len(r.entries))
	for i, e := range r.entries {
		copied := *e
		out[i] = &copied
	}
	return out, nil
}

func (r *InMemoryHistoryRepository) SetCurrentByID(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var target *history.Entry
	for _, e := range r.entries {
		if e.ID == id {
			target = e
			break
		}
	}
	if target == nil {
		return errors.NotFound(fmt.Sprintf("history entry %s", id))
	}

	for _, e := range r.entries {
		e.IsCurrent = false
	}
	target.IsCurrent = true
	return nil
}

// StubNotifier records notification calls and fails on demand
type StubNotifier struct {
	mu    sync.Mutex
	calls int
	Err   error
}

// NewStubNotifier creates a notifier that always succeeds
func NewStubNotifier() *StubNotifier {
	return &StubNotifier{}
}

func (n *StubNotifier) NotifyStructureUpdate(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls++
	if n.Err != nil {
		return errors.ExternalServiceError("parser", n.Err)
	}
	return nil
}

// Calls returns how many notifications were attempted
func (n *StubNotifier) Calls() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls
}

var _ ports.StructureRepository = (*InMemoryStructureRepository)(nil)
var _ ports.HistoryRepository = (*InMemoryHistoryRepository)(nil)
var _ ports.ParserNotifier = (*StubNotifier)(nil)
