package object

import (
	"context"
	"io"
)

// PutResult describes a stored object.
type PutResult struct {
	URL       string
	StorageID string
	SizeBytes int64
}

// ObjectStore defines the contract for storing and deleting binary objects.
// Delete is best-effort from the caller's point of view: callers log a
// failure and continue.
type ObjectStore interface {
	Put(ctx context.Context, folder, key, contentType string, r io.Reader) (PutResult, error)
	Delete(ctx context.Context, storageID string) error
}
