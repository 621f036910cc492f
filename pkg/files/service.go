package files

import (
	"context"
	"encoding/base64"
	"mime"
	"path/filepath"

	"github.com/marmos91/cabinet/internal/logger"
	"github.com/marmos91/cabinet/pkg/catalog"
	"github.com/marmos91/cabinet/pkg/content"
	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/marmos91/cabinet/pkg/queue"
)

// Service drives a single create or read operation across the catalog,
// the content store and the derivation queue.
//
// Write ordering invariant: content is stored before the catalog entry is
// inserted, so a returned entry always has its bytes on the medium, and a
// store failure leaves no partial catalog record. The derivation job for
// an image is enqueued only after the insert commits, so a consumer that
// dequeues it will always find the entry.
type Service struct {
	catalog catalog.Store
	content content.Store
	queue   queue.Queue
}

// NewService creates a files service over the given backends.
func NewService(catalogStore catalog.Store, contentStore content.Store, derivations queue.Queue) *Service {
	return &Service{
		catalog: catalogStore,
		content: contentStore,
		queue:   derivations,
	}
}

// UploadRequest carries the validated-at-the-boundary fields of a create
// request. Data is base64 as received; ParentID is the raw wire value.
type UploadRequest struct {
	Name     string
	Kind     string
	Data     string
	ParentID string
	IsPublic bool
}

// Upload validates the request, stores content, inserts the catalog
// entry and, for images, enqueues a derivation job.
//
// Enqueue failure is logged but does not roll back the already-persisted
// entry: thumbnail generation is best-effort, not transactional with the
// upload.
func (s *Service) Upload(ctx context.Context, ident *identity.Identity, req UploadRequest) (*EntryView, error) {
	if req.Name == "" {
		return nil, missingField("name")
	}
	kind := catalog.Kind(req.Kind)
	if !kind.Valid() {
		return nil, &ValidationError{Field: "type", Message: "Missing or invalid type"}
	}
	if kind != catalog.KindFolder && req.Data == "" {
		return nil, missingField("data")
	}

	var data []byte
	if kind != catalog.KindFolder {
		decoded, err := base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			return nil, &ValidationError{Field: "data", Message: "Data is not valid base64"}
		}
		data = decoded
	}

	parentID := NormalizeParentID(req.ParentID)
	var parentDir string
	if parentID != catalog.RootParent {
		parent, err := s.catalog.GetByID(ctx, parentID)
		if err != nil {
			return nil, &catalog.StoreError{
				Code:    catalog.ErrInvalidParent,
				Message: "Parent not found",
				ID:      parentID,
			}
		}
		if parent.Kind != catalog.KindFolder {
			return nil, &catalog.StoreError{
				Code:    catalog.ErrInvalidParent,
				Message: "Parent is not a folder",
				ID:      parentID,
			}
		}
		parentDir = parent.ContentRef
	}

	var contentRef string
	var err error
	if kind == catalog.KindFolder {
		contentRef, err = s.content.CreateDirectory(ctx, req.Name, parentDir)
	} else {
		contentRef, err = s.content.CreateBlob(ctx, data, parentDir)
	}
	if err != nil {
		return nil, err
	}

	stored, err := s.catalog.Insert(ctx, &catalog.Entry{
		OwnerID:    ident.ID,
		Name:       req.Name,
		Kind:       kind,
		IsPublic:   req.IsPublic,
		ParentID:   parentID,
		ContentRef: contentRef,
	})
	if err != nil {
		return nil, err
	}

	if kind == catalog.KindImage {
		job := queue.Job{UserID: ident.ID, FileID: stored.ID}
		if err := s.queue.Enqueue(ctx, job); err != nil {
			logger.Error("failed to enqueue derivation job for %s: %v", stored.ID, err)
		}
	}

	return NewEntryView(stored), nil
}

// Show returns the entry with the given id if the caller may see it:
// entries are visible to their owner and, when public, to any
// authenticated caller. Anything else is reported as not found rather
// than revealing the entry's existence.
func (s *Service) Show(ctx context.Context, ident *identity.Identity, id string) (*EntryView, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != ident.ID && !entry.IsPublic {
		return nil, notVisible(id)
	}
	return NewEntryView(entry), nil
}

// List returns one page of the caller's entries under the given parent.
// The raw parent id is normalized at this boundary; page size is the
// catalog default.
func (s *Service) List(ctx context.Context, ident *identity.Identity, rawParentID string, page int) ([]*EntryView, error) {
	entries, err := s.catalog.ListPage(ctx, ident.ID, NormalizeParentID(rawParentID), page, catalog.DefaultPageSize)
	if err != nil {
		return nil, err
	}
	return NewEntryViews(entries), nil
}

// Publish makes the entry public. Only the owner may toggle visibility;
// for anyone else the entry is not found.
func (s *Service) Publish(ctx context.Context, ident *identity.Identity, id string) (*EntryView, error) {
	return s.setPublic(ctx, ident, id, true)
}

// Unpublish makes the entry private again.
func (s *Service) Unpublish(ctx context.Context, ident *identity.Identity, id string) (*EntryView, error) {
	return s.setPublic(ctx, ident, id, false)
}

func (s *Service) setPublic(ctx context.Context, ident *identity.Identity, id string, public bool) (*EntryView, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.OwnerID != ident.ID {
		return nil, notVisible(id)
	}

	updated, err := s.catalog.SetPublic(ctx, id, public)
	if err != nil {
		return nil, err
	}
	return NewEntryView(updated), nil
}

// Download returns the raw bytes and content type of a public entry.
// No credential is required: public visibility is the only gate. Private
// and missing entries are both not found; folders have no content and
// are a client error.
//
// The content type is derived from the entry's display name extension,
// not from the stored bytes.
func (s *Service) Download(ctx context.Context, id string) ([]byte, string, error) {
	entry, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !entry.IsPublic {
		return nil, "", notVisible(id)
	}
	if entry.Kind == catalog.KindFolder {
		return nil, "", ErrFolderHasNoContent
	}

	data, err := s.content.ReadBlob(ctx, entry.ContentRef)
	if err != nil {
		return nil, "", err
	}

	contentType := mime.TypeByExtension(filepath.Ext(entry.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}

// notVisible hides an existing entry from a caller who may not see it.
func notVisible(id string) error {
	return &catalog.StoreError{
		Code:    catalog.ErrNotFound,
		Message: "entry not found",
		ID:      id,
	}
}
