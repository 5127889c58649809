package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned (wrapped) when an object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Storage is an object store bound to a single bucket.
type Storage interface {
	// Bucket returns the bucket this store reads and writes.
	Bucket() string

	// Upload writes reader to key, replacing any existing object.
	// An empty contentType leaves the backend default.
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Download returns a reader for the object at key. The caller closes it.
	// A missing object yields an error wrapping ErrNotFound.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the object at key. Returns nil if it does not exist.
	Delete(ctx context.Context, key string) error

	// Exists checks whether an object exists at key.
	Exists(ctx context.Context, key string) (bool, error)

	// URI returns the backend-native reference for key, e.g. gs://bucket/key.
	URI(key string) string

	// Close releases client resources.
	Close() error
}
