package storage

import (
	"context"
	"io"
)

// Storage persists uploaded images under relative paths such as
// "images/quotes/<name>". Deleting an absent path is a no-op.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, size int64) error
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}
