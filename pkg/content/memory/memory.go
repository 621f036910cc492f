// Package memory implements content.Store in process memory.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/marmos91/cabinet/pkg/content"
)

// MemoryContentStore implements content.Store using in-memory maps.
//
// Refs are synthetic slash-separated keys under the "mem:/" prefix. The
// store is intended for tests and ephemeral deployments; it mirrors the
// filesystem store's semantics exactly so the shared contract suite can
// run against both.
//
// Thread Safety:
// All operations are protected by a single read-write mutex.
type MemoryContentStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	dirs  map[string]bool
}

const rootRef = "mem:"

// NewMemoryContentStore creates an empty in-memory content store.
func NewMemoryContentStore() *MemoryContentStore {
	return &MemoryContentStore{
		blobs: make(map[string][]byte),
		dirs:  map[string]bool{rootRef: true},
	}
}

// CreateBlob stores a copy of data under a generated UUID key.
func (s *MemoryContentStore) CreateBlob(ctx context.Context, data []byte, parentDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.resolveDirLocked(parentDir)
	if err != nil {
		return "", err
	}

	ref := dir + "/" + uuid.New().String()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[ref] = stored
	return ref, nil
}

// CreateDirectory registers (idempotently) a directory key under parentDir.
func (s *MemoryContentStore) CreateDirectory(ctx context.Context, name, parentDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", &content.StoreError{
			Code:    content.ErrInvalidRef,
			Message: "directory name must not be empty",
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir, err := s.resolveDirLocked(parentDir)
	if err != nil {
		return "", err
	}

	ref := dir + "/" + name
	s.dirs[ref] = true
	return ref, nil
}

// ReadBlob returns a copy of the bytes at ref.
func (s *MemoryContentStore) ReadBlob(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.blobs[ref]
	if !ok {
		return nil, &content.StoreError{
			Code:    content.ErrNotFound,
			Message: "blob not found",
			Ref:     ref,
		}
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteSibling stores data under ref+suffix, overwriting any previous value.
func (s *MemoryContentStore) WriteSibling(ctx context.Context, ref, suffix string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !strings.HasPrefix(ref, rootRef) {
		return "", &content.StoreError{
			Code:    content.ErrInvalidRef,
			Message: "ref is outside the content root",
			Ref:     ref,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sibling := ref + suffix
	stored := make([]byte, len(data))
	copy(stored, data)
	s.blobs[sibling] = stored
	return sibling, nil
}

func (s *MemoryContentStore) resolveDirLocked(parentDir string) (string, error) {
	if parentDir == "" {
		return rootRef, nil
	}
	if !s.dirs[parentDir] {
		return "", &content.StoreError{
			Code:    content.ErrInvalidRef,
			Message: "parent directory does not exist in this store",
			Ref:     parentDir,
		}
	}
	return parentDir, nil
}
