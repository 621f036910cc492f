package content

import "errors"

// StoreError represents an error from content store operations.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Ref is the content ref related to the error (if applicable)
	Ref string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Ref != "" {
		return e.Message + ": " + e.Ref
	}
	return e.Message
}

// ErrorCode represents the category of a content store error.
type ErrorCode int

const (
	// ErrNotFound indicates the ref doesn't resolve to an existing blob
	ErrNotFound ErrorCode = iota

	// ErrWrite indicates the medium rejected a write (disk full,
	// permission denied). Callers treat this as fatal for the request.
	ErrWrite

	// ErrRead indicates the medium failed while reading an existing blob
	ErrRead

	// ErrInvalidRef indicates a ref or parent handle that doesn't belong
	// to this store (wrong root, traversal outside the tree)
	ErrInvalidRef
)

// IsNotFound reports whether err is a content StoreError with ErrNotFound.
func IsNotFound(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == ErrNotFound
	}
	return false
}
