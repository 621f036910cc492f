// Package files orchestrates the catalog, content store and derivation
// queue behind the file API: uploads, reads, listing, visibility toggles
// and raw content download.
package files

import (
	"fmt"

	"github.com/marmos91/cabinet/pkg/catalog"
)

// ValidationError reports a missing or malformed request field. The
// message is the wire-level error string returned to HTTP clients.
type ValidationError struct {
	// Field is the offending request field
	Field string

	// Message is the client-facing description
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Message
}

// ErrFolderHasNoContent is returned when raw content is requested for a
// folder entry.
var ErrFolderHasNoContent = &ValidationError{
	Field:   "kind",
	Message: "A folder doesn't have content",
}

// wireRootParent is how the root sentinel is rendered on the wire. The
// boundary accepts it (and the empty string) on input; see NormalizeParentID.
const wireRootParent = "0"

// NormalizeParentID maps the wire representations of "no parent" onto the
// catalog's canonical root sentinel. Callers historically send either the
// literal "0" or omit the field entirely; both mean the root.
func NormalizeParentID(raw string) string {
	if raw == "" || raw == wireRootParent {
		return catalog.RootParent
	}
	return raw
}

// EntryView is the external projection of a catalog entry. The content
// ref is deliberately absent: handles never leave the core.
//
// Field names (userId, type, parentId) are the wire schema existing
// clients depend on.
type EntryView struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Kind     string `json:"type"`
	IsPublic bool   `json:"isPublic"`
	ParentID string `json:"parentId"`
}

// NewEntryView projects an entry for external callers.
func NewEntryView(entry *catalog.Entry) *EntryView {
	parentID := entry.ParentID
	if parentID == catalog.RootParent {
		parentID = wireRootParent
	}
	return &EntryView{
		ID:       entry.ID,
		UserID:   entry.OwnerID,
		Name:     entry.Name,
		Kind:     string(entry.Kind),
		IsPublic: entry.IsPublic,
		ParentID: parentID,
	}
}

// NewEntryViews projects a page of entries.
func NewEntryViews(entries []*catalog.Entry) []*EntryView {
	views := make([]*EntryView, len(entries))
	for i, entry := range entries {
		views[i] = NewEntryView(entry)
	}
	return views
}

func missingField(field string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: fmt.Sprintf("Missing %s", field),
	}
}
