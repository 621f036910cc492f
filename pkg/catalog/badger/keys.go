package badger

import "encoding/binary"

// Database Key Namespace Design
// ==============================
//
// BadgerDB is a key-value store, so we use prefixed keys to organize the
// catalog's data types into logical namespaces:
//
// Data Type        Prefix   Key Format                        Value Type
// =========================================================================
// Entry Data       "e:"     e:<entryID>                       Entry (JSON)
// Listing Index    "o:"     o:<ownerID>:<parentID>:<seq>      entryID (bytes)
//
// Entry IDs are UUIDv4, generated at insert. Owner IDs come from the
// external user store and, like UUIDs, are assumed colon-free; the root
// parent sentinel is the empty string, which composes into the listing
// key as an empty segment.
//
// The listing index is denormalized: one key per entry, per (owner, parent)
// pair, suffixed with a monotonically increasing 8-byte big-endian sequence
// number. This makes ListPage a single prefix scan in insertion order:
// Badger iterates keys in lexicographic order and big-endian encoding
// preserves numeric order, with skip/limit applied during iteration.
// No sorting or secondary pass is needed.

const (
	entryPrefix   = "e:"
	listingPrefix = "o:"
)

// keyEntry returns the key for an entry's JSON record.
func keyEntry(id string) []byte {
	return []byte(entryPrefix + id)
}

// keyListing returns the listing index key for an entry.
func keyListing(ownerID, parentID string, seq uint64) []byte {
	key := make([]byte, 0, len(listingPrefix)+len(ownerID)+len(parentID)+10)
	key = append(key, listingPrefix...)
	key = append(key, ownerID...)
	key = append(key, ':')
	key = append(key, parentID...)
	key = append(key, ':')
	key = binary.BigEndian.AppendUint64(key, seq)
	return key
}

// keyListingScan returns the prefix that matches every listing key for the
// given (owner, parent) pair.
func keyListingScan(ownerID, parentID string) []byte {
	return []byte(listingPrefix + ownerID + ":" + parentID + ":")
}
