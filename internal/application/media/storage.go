package media

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by ObjectStorage when a key does not exist
var ErrObjectNotFound = errors.New("storage object not found")

// ObjectStorage defines the interface for the blob store uploads are written to.
// It is implemented by the infrastructure layer (local filesystem, S3).
type ObjectStorage interface {
	// Put writes data under key, replacing any existing object
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes the object; a missing key returns ErrObjectNotFound
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists in storage
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL of key
	URL(key string) string

	// KeyFromURL reverses URL. ok is false for URLs outside this storage.
	KeyFromURL(rawURL string) (key string, ok bool)
}
