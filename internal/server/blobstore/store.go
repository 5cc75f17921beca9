// Package blobstore provides the byte-storage capability behind the storage
// service: opaque blobs addressed by a server-generated key. Two backends
// are available, a local filesystem directory and an S3-compatible bucket.
package blobstore

import (
	"context"
	"io"
)

// Store is the byte-storage capability. Keys are server-generated and unique,
// so distinct keys never contend.
type Store interface {
	// Save persists the bytes read from r under key and returns the number
	// of bytes written. Save must not leave a partial blob behind on error.
	Save(ctx context.Context, key string, r io.Reader) (int64, error)

	// Open returns a reader over the blob stored under key, or
	// common.ErrorNotFound if no such blob exists.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob stored under key. Deleting a missing blob
	// returns common.ErrorNotFound.
	Delete(ctx context.Context, key string) error
}
