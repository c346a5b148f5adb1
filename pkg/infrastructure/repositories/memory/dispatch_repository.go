package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
)

// DispatchRepository provides in-memory dispatch entry storage
type DispatchRepository struct {
	mu      sync.RWMutex
	entries map[string]entities.DispatchEntry

	// failOn makes SaveDispatchEntry fail for the given ids
	failOn map[string]error
	// failList makes GetAllDispatchEntries fail
	failList error
}

// NewDispatchRepository creates a new in-memory dispatch repository
func NewDispatchRepository() *DispatchRepository {
	return &DispatchRepository{
		entries: make(map[string]entities.DispatchEntry),
		failOn:  make(map[string]error),
	}
}

// Verify interface compliance
var _ repositories.DispatchRepository = (*DispatchRepository)(nil)

// FailSavesFor makes every save of entry id return err
func (r *DispatchRepository) FailSavesFor(id string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failOn[id] = err
}

// FailListWith makes every GetAllDispatchEntries call return err
func (r *DispatchRepository) FailListWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failList = err
}

// SaveDispatchEntry replaces the stored entry and its full line-item list
func (r *DispatchRepository) SaveDispatchEntry(_ context.Context, entry *entities.DispatchEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("dispatch entry id cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn[entry.ID]; err != nil {
		return err
	}
	r.entries[entry.ID] = entry.Clone()
	return nil
}

// GetDispatchEntry returns a copy of the entry with the given id
func (r *DispatchRepository) GetDispatchEntry(_ context.Context, id string) (*entities.DispatchEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, exists := r.entries[id]
	if !exists {
		return nil, fmt.Errorf("dispatch entry %s: %w", id, entities.ErrNotFound)
	}
	clone := entry.Clone()
	return &clone, nil
}

// GetAllDispatchEntries returns copies of all entries sorted by id
func (r *DispatchRepository) GetAllDispatchEntries(_ context.Context) ([]*entities.DispatchEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.failList != nil {
		return nil, r.failList
	}
	entries := make([]*entities.DispatchEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		clone := entry.Clone()
		entries = append(entries, &clone)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}
