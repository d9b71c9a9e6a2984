package repositories

import (
	"context"
)

// KV is the narrow key-value contract the dream store is built on. Values
// are whole JSON documents: every store operation is a read-modify-write
// of a full collection under a fixed key.
//
// The contract deliberately offers no transaction spanning multiple keys.
// A failure between two Put calls can leave the interpretations collection
// holding a record not yet linked from its dream's history; that is a
// recoverable inconsistency (the record is additive), not corruption.
// Implementations may be swapped for a transactional or indexed store
// without changing call sites.
type KV interface {
	// Get returns the value stored under key. ok is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}
