// Package memory provides an in-memory implementation of catalog.Store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marmos91/cabinet/pkg/catalog"
)

// MemoryCatalogStore implements catalog.Store using in-memory data structures.
//
// This implementation is suitable for:
//   - Testing and development environments
//   - Ephemeral deployments where metadata need not survive restarts
//
// Thread Safety:
// All operations are protected by a single read-write mutex, making the
// store safe for concurrent access from multiple goroutines. This
// coarse-grained locking is simple and correct; the catalog workload
// (single-record writes, short page scans) does not justify finer locking.
//
// Storage Model:
//   - entries: maps entry ID to the stored Entry
//   - order:   entry IDs in insertion order, the source of truth for
//     pagination; ListPage scans it filtering by owner and parent
type MemoryCatalogStore struct {
	mu      sync.RWMutex
	entries map[string]*catalog.Entry
	order   []string
	closed  bool
}

// NewMemoryCatalogStore creates an empty in-memory catalog store.
func NewMemoryCatalogStore() *MemoryCatalogStore {
	return &MemoryCatalogStore{
		entries: make(map[string]*catalog.Entry),
	}
}

// Insert persists a new entry. See catalog.Store for validation rules.
func (s *MemoryCatalogStore) Insert(ctx context.Context, entry *catalog.Entry) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateNewEntry(entry); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ParentID != catalog.RootParent {
		parent, ok := s.entries[entry.ParentID]
		if !ok || parent.Kind != catalog.KindFolder {
			return nil, &catalog.StoreError{
				Code:    catalog.ErrInvalidParent,
				Message: "parent is missing or not a folder",
				ID:      entry.ParentID,
			}
		}
	}

	stored := entry.Clone()
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()

	s.entries[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	return stored.Clone(), nil
}

// GetByID returns a copy of the entry with the given ID.
func (s *MemoryCatalogStore) GetByID(ctx context.Context, id string) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	return entry.Clone(), nil
}

// SetPublic updates the visibility flag. Idempotent.
func (s *MemoryCatalogStore) SetPublic(ctx context.Context, id string, public bool) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	entry.IsPublic = public
	return entry.Clone(), nil
}

// ListPage returns one page of entries for (ownerID, parentID) in
// insertion order.
func (s *MemoryCatalogStore) ListPage(ctx context.Context, ownerID, parentID string, page, pageSize int) ([]*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validatePage(page, pageSize); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	skip := page * pageSize
	result := make([]*catalog.Entry, 0, pageSize)
	matched := 0

	for _, id := range s.order {
		entry := s.entries[id]
		if entry.OwnerID != ownerID || entry.ParentID != parentID {
			continue
		}
		if matched >= skip {
			result = append(result, entry.Clone())
			if len(result) == pageSize {
				break
			}
		}
		matched++
	}

	return result, nil
}

// Count returns the total number of entries.
func (s *MemoryCatalogStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Close discards all entries.
func (s *MemoryCatalogStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.order = nil
	s.closed = true
	return nil
}

// validateNewEntry checks the argument-level invariants shared by all
// store implementations.
func validateNewEntry(entry *catalog.Entry) error {
	if entry == nil || entry.Name == "" {
		return &catalog.StoreError{
			Code:    catalog.ErrInvalidArgument,
			Message: "entry name must not be empty",
		}
	}
	if !entry.Kind.Valid() {
		return &catalog.StoreError{
			Code:    catalog.ErrInvalidArgument,
			Message: "unknown entry kind " + string(entry.Kind),
		}
	}
	return nil
}

func validatePage(page, pageSize int) error {
	if page < 0 || pageSize <= 0 {
		return &catalog.StoreError{
			Code:    catalog.ErrInvalidArgument,
			Message: "page must be >= 0 and page size > 0",
		}
	}
	return nil
}

func notFound(id string) error {
	return &catalog.StoreError{
		Code:    catalog.ErrNotFound,
		Message: "entry not found",
		ID:      id,
	}
}
