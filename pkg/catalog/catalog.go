// Package catalog defines the metadata model for the file catalog: entries
// forming a hierarchical namespace of folders, files and images, and the
// Store interface implemented by the persistence backends.
//
// The catalog owns metadata only. File bytes live in a content store
// (pkg/content) and are referenced from entries through an opaque content
// ref that is never exposed outside the core.
package catalog

import (
	"time"
)

// Kind classifies a catalog entry.
type Kind string

const (
	// KindFolder is a directory entry. Folders never carry a content ref.
	KindFolder Kind = "folder"

	// KindFile is a regular file entry backed by a content blob.
	KindFile Kind = "file"

	// KindImage is a file entry that additionally participates in
	// thumbnail derivation.
	KindImage Kind = "image"
)

// Valid reports whether k is one of the three known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasContent reports whether entries of this kind carry a content ref.
func (k Kind) HasContent() bool {
	return k != KindFolder && k.Valid()
}

// RootParent is the canonical parent sentinel meaning "no parent / top level".
//
// The HTTP boundary also accepts the legacy literal "0" and normalizes it to
// this value before the core sees it; the core itself only ever stores and
// compares the canonical form.
const RootParent = ""

// Entry is a single catalog record.
//
// ID, OwnerID, Kind, ParentID and ContentRef are immutable after insert.
// IsPublic is the only field mutated within the core (via SetPublic).
// Rename and deletion are not part of this catalog's lifecycle.
type Entry struct {
	// ID is the catalog-assigned unique identifier (UUIDv4).
	ID string `json:"id"`

	// OwnerID identifies the user that created the entry.
	OwnerID string `json:"owner_id"`

	// Name is the display name. Non-empty, caller-chosen, not unique.
	Name string `json:"name"`

	// Kind is one of folder, file, image.
	Kind Kind `json:"kind"`

	// IsPublic controls anonymous access to the entry's content.
	IsPublic bool `json:"is_public"`

	// ParentID is RootParent or the ID of an existing folder entry.
	ParentID string `json:"parent_id"`

	// ContentRef is the opaque content store handle. Present iff
	// Kind != folder for files, and set for folders whose backing
	// directory exists on the content medium. Never included in
	// external projections.
	ContentRef string `json:"content_ref,omitempty"`

	// CreatedAt records insertion time. Listing order is insertion
	// order, which the stores derive from their own sequencing, not
	// from this timestamp; it is informational.
	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the entry.
//
// Stores hand out clones so callers can never mutate persisted state
// through a returned pointer.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	clone := *e
	return &clone
}
