package setstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// Store reads and writes named encoded sets.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored bytes.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put stores data under name, replacing any previous value.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob succeeds.
	Delete(ctx context.Context, name string) error
	// List returns all names with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}
