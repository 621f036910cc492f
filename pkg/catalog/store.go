package catalog

import "context"

// DefaultPageSize is the page size used by the listing endpoint when the
// caller does not specify one.
const DefaultPageSize = 20

// Store is the persistence contract for catalog entries.
//
// Implementations must serialize their own internal writes; callers issue
// operations concurrently without external coordination. All methods honor
// context cancellation before touching the backend.
//
// Both implementations (memory, badger) are exercised against the shared
// contract suite in pkg/catalog/testing.
type Store interface {
	// Insert persists a new entry and returns the stored copy with the
	// catalog-assigned ID and creation time filled in.
	//
	// Validation enforced before insert:
	//   - Name must be non-empty and Kind must be valid (ErrInvalidArgument)
	//   - If ParentID != RootParent, the parent must exist and have
	//     Kind == KindFolder (ErrInvalidParent)
	//
	// The ID, if set on the argument, is ignored.
	Insert(ctx context.Context, entry *Entry) (*Entry, error)

	// GetByID returns the entry with the given ID, or a StoreError with
	// ErrNotFound. The returned entry is a copy; mutating it does not
	// affect the store.
	GetByID(ctx context.Context, id string) (*Entry, error)

	// SetPublic sets the entry's visibility flag and returns the updated
	// entry. Setting the flag to its current value is a successful no-op.
	// Returns ErrNotFound if the entry doesn't exist.
	SetPublic(ctx context.Context, id string, public bool) (*Entry, error)

	// ListPage returns one page of the entries owned by ownerID whose
	// ParentID equals parentID, in insertion order. The page is
	// skip = page*pageSize, limit = pageSize. A page past the end of the
	// result set yields an empty slice, never an error.
	ListPage(ctx context.Context, ownerID, parentID string, page, pageSize int) ([]*Entry, error)

	// Count returns the total number of entries in the catalog.
	Count(ctx context.Context) (int, error)

	// Close releases backend resources. The store must not be used after
	// Close returns.
	Close() error
}
