package storage

import (
	"context"
	"fmt"
)

// Mode selects the storage backend.
type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCS   Mode = "gcs"
)

// NewClient creates a storage client for the configured mode. baseDir is the
// local root (local mode); bucket is the GCS bucket name (gcs mode).
func NewClient(ctx context.Context, mode Mode, baseDir, bucket string) (Client, error) {
	switch mode {
	case ModeLocal:
		if baseDir == "" {
			baseDir = "snapshots"
		}
		client, err := NewLocalClient(baseDir)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		return client, nil
	case ModeGCS:
		if bucket == "" {
			return nil, fmt.Errorf("GCS storage requires a bucket name")
		}
		client, err := NewGCSClient(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize GCS storage: %w", err)
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown storage mode %q", mode)
	}
}
