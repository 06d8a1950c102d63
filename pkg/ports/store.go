package ports

import (
	"context"
)

// SnapshotStore persists the serialized form of suspended paths.
// This is what lets a spilled path give up its memory and be rebuilt on resume.
type SnapshotStore interface {
	// Save persists data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Load retrieves the data stored under key.
	// Returns domain.ErrSnapshotNotFound if the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}
