package catalog

import "errors"

// StoreError represents a domain error from catalog operations.
//
// These are business logic errors (entry not found, invalid parent, etc.)
// as opposed to infrastructure errors (disk failure, corrupted record),
// which are reported with ErrIO and a wrapped cause where available.
//
// The HTTP layer translates StoreError codes to status codes; other
// callers match on Code via the Is* helpers.
type StoreError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// ID is the entry identifier related to the error (if applicable)
	ID string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.ID != "" {
		return e.Message + ": " + e.ID
	}
	return e.Message
}

// ErrorCode represents the category of a catalog error.
type ErrorCode int

const (
	// ErrNotFound indicates the requested entry doesn't exist
	ErrNotFound ErrorCode = iota

	// ErrInvalidParent indicates the parent is missing or not a folder
	ErrInvalidParent

	// ErrInvalidArgument indicates invalid parameters were provided
	// Examples: empty name, unknown kind, negative page number
	ErrInvalidArgument

	// ErrIO indicates the persistence backend failed
	ErrIO
)

// IsNotFound reports whether err is a catalog StoreError with ErrNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, ErrNotFound)
}

// IsInvalidParent reports whether err is a catalog StoreError with ErrInvalidParent.
func IsInvalidParent(err error) bool {
	return hasCode(err, ErrInvalidParent)
}

// IsInvalidArgument reports whether err is a catalog StoreError with ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return hasCode(err, ErrInvalidArgument)
}

func hasCode(err error, code ErrorCode) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == code
	}
	return false
}
