package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/marmos91/cabinet/pkg/catalog"
)

// Serialization: entries are stored as JSON. Records are small and JSON
// keeps the database debuggable with standard tooling; the listing index
// uses binary sequence suffixes (see keys.go).

func encodeEntry(entry *catalog.Entry) ([]byte, error) {
	return json.Marshal(entry)
}

func decodeEntry(data []byte) (*catalog.Entry, error) {
	var entry catalog.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode entry: %w", err)
	}
	return &entry, nil
}

// Insert persists a new entry inside a single read-write transaction:
// parent validation, the entry record, and the listing-index key either
// all commit or none do.
func (s *BadgerCatalogStore) Insert(ctx context.Context, entry *catalog.Entry) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateNewEntry(entry); err != nil {
		return nil, err
	}

	seq, err := s.seq.Next()
	if err != nil {
		return nil, ioError("failed to allocate listing sequence", err)
	}

	stored := entry.Clone()
	stored.ID = uuid.New().String()
	stored.CreatedAt = time.Now()

	err = s.db.Update(func(txn *badger.Txn) error {
		if stored.ParentID != catalog.RootParent {
			parent, err := getEntry(txn, stored.ParentID)
			if catalog.IsNotFound(err) {
				return &catalog.StoreError{
					Code:    catalog.ErrInvalidParent,
					Message: "parent is missing or not a folder",
					ID:      stored.ParentID,
				}
			}
			if err != nil {
				return err
			}
			if parent.Kind != catalog.KindFolder {
				return &catalog.StoreError{
					Code:    catalog.ErrInvalidParent,
					Message: "parent is missing or not a folder",
					ID:      stored.ParentID,
				}
			}
		}

		value, err := encodeEntry(stored)
		if err != nil {
			return err
		}
		if err := txn.Set(keyEntry(stored.ID), value); err != nil {
			return err
		}
		return txn.Set(keyListing(stored.OwnerID, stored.ParentID, seq), []byte(stored.ID))
	})
	if err != nil {
		if _, ok := err.(*catalog.StoreError); ok {
			return nil, err
		}
		return nil, ioError("failed to insert entry", err)
	}

	return stored, nil
}

// GetByID returns the entry with the given ID.
func (s *BadgerCatalogStore) GetByID(ctx context.Context, id string) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entry *catalog.Entry
	err := s.db.View(func(txn *badger.Txn) error {
		found, err := getEntry(txn, id)
		if err != nil {
			return err
		}
		entry = found
		return nil
	})
	if err != nil {
		if _, ok := err.(*catalog.StoreError); ok {
			return nil, err
		}
		return nil, ioError("failed to get entry", err)
	}
	return entry, nil
}

// SetPublic updates the visibility flag and returns the updated entry.
// Setting the current value again rewrites the record, which is harmless
// and keeps the operation a single code path.
func (s *BadgerCatalogStore) SetPublic(ctx context.Context, id string, public bool) (*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var updated *catalog.Entry
	err := s.db.Update(func(txn *badger.Txn) error {
		entry, err := getEntry(txn, id)
		if err != nil {
			return err
		}
		entry.IsPublic = public

		value, err := encodeEntry(entry)
		if err != nil {
			return err
		}
		if err := txn.Set(keyEntry(id), value); err != nil {
			return err
		}
		updated = entry
		return nil
	})
	if err != nil {
		if _, ok := err.(*catalog.StoreError); ok {
			return nil, err
		}
		return nil, ioError("failed to update entry", err)
	}
	return updated, nil
}

// ListPage scans the listing index for (ownerID, parentID) in insertion
// order, resolving entry records as it goes.
func (s *BadgerCatalogStore) ListPage(ctx context.Context, ownerID, parentID string, page, pageSize int) ([]*catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if page < 0 || pageSize <= 0 {
		return nil, &catalog.StoreError{
			Code:    catalog.ErrInvalidArgument,
			Message: "page must be >= 0 and page size > 0",
		}
	}

	skip := page * pageSize
	result := make([]*catalog.Entry, 0, pageSize)

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = keyListingScan(ownerID, parentID)

		it := txn.NewIterator(opts)
		defer it.Close()

		matched := 0
		for it.Rewind(); it.Valid(); it.Next() {
			if matched < skip {
				matched++
				continue
			}
			if len(result) == pageSize {
				break
			}

			var id string
			err := it.Item().Value(func(val []byte) error {
				id = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			entry, err := getEntry(txn, id)
			if err != nil {
				// A listing key without its entry record means the DB
				// is corrupted; surface it rather than skip silently.
				return fmt.Errorf("listing index references missing entry %s: %w", id, err)
			}
			result = append(result, entry)
			matched++
		}
		return nil
	})
	if err != nil {
		return nil, ioError("failed to list entries", err)
	}
	return result, nil
}

// getEntry reads and decodes a single entry inside an open transaction.
func getEntry(txn *badger.Txn, id string) (*catalog.Entry, error) {
	item, err := txn.Get(keyEntry(id))
	if err == badger.ErrKeyNotFound {
		return nil, &catalog.StoreError{
			Code:    catalog.ErrNotFound,
			Message: "entry not found",
			ID:      id,
		}
	}
	if err != nil {
		return nil, err
	}

	var entry *catalog.Entry
	err = item.Value(func(val []byte) error {
		decoded, err := decodeEntry(val)
		if err != nil {
			return err
		}
		entry = decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// validateNewEntry checks the argument-level invariants before any
// transaction is opened.
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
