// Package storage defines the blob access the cleaning pipeline relies on:
// reading the input file, writing output files and removing intermediate
// artifacts. Concrete backends (e.g. the local filesystem) implement Storage.
//
//go:generate mockgen -package mockstorage -source=interface.go -destination=mock/mockstorage.go *
package storage

import "context"

// Storage reads and writes whole blobs addressed by path.
type Storage interface {
	// Read returns the full content of the blob at path. A missing blob is
	// reported with serrors.ErrNotFound, any other failure with serrors.ErrIO.
	Read(ctx context.Context, path string) ([]byte, error)
	// Write replaces the blob at path with data. Implementations must not leave
	// a partially written blob behind when they fail.
	Write(ctx context.Context, path string, data []byte) error
	// Remove deletes the blob at path. Removing a missing blob is not an error.
	Remove(ctx context.Context, path string) error
}
