// Package storage abstracts where snapshot artifacts are kept: a local
// directory for development, a GCS bucket for deployments.
package storage

import (
	"context"
)

// Client defines the operations the snapshot pipeline needs.
type Client interface {
	// Close releases the underlying client resources.
	Close() error

	// StoreFile writes data at the given storage-relative path, creating
	// intermediate folders as needed.
	StoreFile(ctx context.Context, path string, data []byte) error

	// GetFile retrieves the file at the storage-relative path.
	GetFile(ctx context.Context, path string) ([]byte, error)

	// ListSnapshots returns the paths of stored snapshot pages, newest
	// first, at most limit entries (0 = all).
	ListSnapshots(ctx context.Context, limit int) ([]string, error)

	// FileExists checks whether a file exists at the path.
	FileExists(ctx context.Context, path string) (bool, error)
}
