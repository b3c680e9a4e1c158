package driven

import "context"

// SnapshotStore persists encoded dataset snapshots addressed by dataset name
// and snapshot key. Writes replace atomically: a failed Put leaves any
// previous content intact.
type SnapshotStore interface {
	// Put stores data for {name, key}.
	Put(ctx context.Context, name, key string, data []byte) error

	// Get returns the data for {name, key}, or ErrNotFound.
	Get(ctx context.Context, name, key string) ([]byte, error)

	// Exists reports whether a snapshot is stored for {name, key}.
	Exists(ctx context.Context, name, key string) (bool, error)

	// Delete removes the snapshot for {name, key}. Deleting a missing
	// snapshot is not an error.
	Delete(ctx context.Context, name, key string) error
}
