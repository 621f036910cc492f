// Package content defines the contract for durable byte storage backing
// catalog entries.
//
// Blobs are addressed by generated, collision-free refs rather than
// caller-supplied file names, so concurrent uploads cannot contend on a
// path and client input never reaches the storage medium as a blob name.
// Directories are the one exception: their names are caller-chosen, and
// creating a directory that already exists is an idempotent success,
// matching the catalog's append-only folder lifecycle.
//
// A ref is opaque to everything outside the content stores. The filesystem
// implementation uses absolute paths; the memory implementation uses
// synthetic keys. Callers must not parse or construct refs.
package content

import "context"

// Store is the byte-storage contract.
//
// Implementations must be safe for concurrent use. Both implementations
// (fs, memory) are exercised against the shared contract suite in
// pkg/content/testing.
type Store interface {
	// CreateBlob writes data under a generated unique name inside
	// parentDir (or the store root when parentDir is empty) and returns
	// the new blob's ref. Fails with ErrWrite on medium failure.
	CreateBlob(ctx context.Context, data []byte, parentDir string) (string, error)

	// CreateDirectory creates a directory named exactly name under
	// parentDir (or the store root when parentDir is empty) and returns
	// its ref. If the directory already exists at that path, the existing
	// ref is returned without error.
	CreateDirectory(ctx context.Context, name, parentDir string) (string, error)

	// ReadBlob returns the bytes of the blob at ref. Fails with
	// ErrNotFound if ref does not resolve to an existing blob.
	ReadBlob(ctx context.Context, ref string) ([]byte, error)

	// WriteSibling writes data as a blob named ref+suffix, next to the
	// original. An existing sibling is overwritten, making re-derivation
	// idempotent. Returns the sibling's ref.
	WriteSibling(ctx context.Context, ref, suffix string, data []byte) (string, error)
}
