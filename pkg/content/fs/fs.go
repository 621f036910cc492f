// Package fs implements content.Store on the local filesystem.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/marmos91/cabinet/pkg/content"
)

// FSContentStore implements content.Store using a local directory tree.
//
// Blobs are written under generated UUIDv4 names, which makes concurrent
// writers collision-free without coordination. Refs are absolute paths
// inside the root; every ref and parent handle is validated to resolve
// inside the root before the filesystem is touched.
//
// Thread Safety:
// Distinct blobs never share a path, so concurrent CreateBlob calls are
// safe. CreateDirectory is check-then-create, which two concurrent
// creators of the identical path may both attempt; MkdirAll tolerates the
// "already exists" outcome, so both observe success.
type FSContentStore struct {
	root string
}

// NewFSContentStore creates a filesystem content store rooted at root,
// creating the directory (permissions 0755) if it doesn't exist.
func NewFSContentStore(ctx context.Context, root string) (*FSContentStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve content root %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return nil, fmt.Errorf("failed to create content root: %w", err)
	}

	return &FSContentStore{root: abs}, nil
}

// Root returns the store's root directory.
func (s *FSContentStore) Root() string {
	return s.root
}

// CreateBlob writes data under a generated UUID name inside parentDir
// (or the root when parentDir is empty).
func (s *FSContentStore) CreateBlob(ctx context.Context, data []byte, parentDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := s.resolveDir(parentDir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, uuid.New().String())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &content.StoreError{
			Code:    content.ErrWrite,
			Message: fmt.Sprintf("failed to write blob: %v", err),
			Ref:     path,
		}
	}
	return path, nil
}

// CreateDirectory creates (idempotently) a directory named name under
// parentDir or the root.
func (s *FSContentStore) CreateDirectory(ctx context.Context, name, parentDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" {
		return "", &content.StoreError{
			Code:    content.ErrInvalidRef,
			Message: "directory name must not be empty",
		}
	}

	dir, err := s.resolveDir(parentDir)
	if err != nil {
		return "", err
	}

	// filepath.Base strips any path separators a caller-chosen name may
	// smuggle in, so a name like "../../etc" collapses to a plain segment.
	path := filepath.Join(dir, filepath.Base(name))
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", &content.StoreError{
			Code:    content.ErrWrite,
			Message: fmt.Sprintf("failed to create directory: %v", err),
			Ref:     path,
		}
	}
	return path, nil
}

// ReadBlob returns the bytes at ref. A missing ref or one that resolves
// to a non-regular file is reported as not found; any other stat or read
// failure is reported as a read error.
func (s *FSContentStore) ReadBlob(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.checkRef(ref); err != nil {
		return nil, err
	}

	info, err := os.Stat(ref)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &content.StoreError{
				Code:    content.ErrNotFound,
				Message: "blob not found",
				Ref:     ref,
			}
		}
		return nil, &content.StoreError{
			Code:    content.ErrRead,
			Message: fmt.Sprintf("failed to stat blob: %v", err),
			Ref:     ref,
		}
	}
	if !info.Mode().IsRegular() {
		return nil, &content.StoreError{
			Code:    content.ErrNotFound,
			Message: "blob not found",
			Ref:     ref,
		}
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, &content.StoreError{
			Code:    content.ErrRead,
			Message: fmt.Sprintf("failed to read blob: %v", err),
			Ref:     ref,
		}
	}
	return data, nil
}

// WriteSibling writes data to ref+suffix, overwriting any previous sibling.
func (s *FSContentStore) WriteSibling(ctx context.Context, ref, suffix string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.checkRef(ref); err != nil {
		return "", err
	}

	path := ref + suffix
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &content.StoreError{
			Code:    content.ErrWrite,
			Message: fmt.Sprintf("failed to write sibling blob: %v", err),
			Ref:     path,
		}
	}
	return path, nil
}

// resolveDir maps a parent handle to a directory path, defaulting to the
// store root.
func (s *FSContentStore) resolveDir(parentDir string) (string, error) {
	if parentDir == "" {
		return s.root, nil
	}
	if err := s.checkRef(parentDir); err != nil {
		return "", err
	}
	return parentDir, nil
}

// checkRef rejects refs that escape the store root. Refs are produced by
// this store, so a failure here means a corrupted or forged handle.
func (s *FSContentStore) checkRef(ref string) error {
	cleaned := filepath.Clean(ref)
	if cleaned != s.root && !strings.HasPrefix(cleaned, s.root+string(filepath.Separator)) {
		return &content.StoreError{
			Code:    content.ErrInvalidRef,
			Message: "ref is outside the content root",
			Ref:     ref,
		}
	}
	return nil
}
