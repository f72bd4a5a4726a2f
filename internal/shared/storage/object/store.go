package object

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrNotFound is returned when no object exists under the key.
	ErrNotFound = errors.New("object not found")
	// ErrExists is returned when Put targets a key that is already taken.
	ErrExists = errors.New("object already exists")
	// ErrInvalidKey is returned for keys that escape the store root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// ObjectStore defines the contract for writing, reading and removing binary objects.
// Put never overwrites an existing key. Delete of a missing key is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, contentType string, r io.Reader) (sizeBytes int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
