// Package storage persists the uploaded file pairs that diffs are
// computed from. Objects are small (a compressed pair archive, generally
// <32kb and absolutely <1MB), hence no io.Reader support.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// Storage represents an interface capable of storing objects.
// Storage must not delete files on its own.
type Storage interface {
	// Return ErrNotFound on object not found.
	Get(ctx context.Context, id string) ([]byte, error)
	// Overwrite if id exists.
	Put(ctx context.Context, id string, data []byte) error
	// Return nil on not found.
	Del(ctx context.Context, id string) error
}

// ListStorage adds the List operation to Storage, allowing to list all
// available objects.
type ListStorage interface {
	Storage
	// Callers should NOT retain b, rather make a copy if needed.
	List(ctx context.Context, cb func(id string, b []byte) error) error
}
