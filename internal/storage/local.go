package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LocalClient stores snapshot files under a base directory on disk.
type LocalClient struct {
	baseDir string
}

// NewLocalClient creates a local storage client rooted at baseDir.
func NewLocalClient(baseDir string) (*LocalClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalClient{baseDir: baseDir}, nil
}

// Close is a no-op for local storage.
func (l *LocalClient) Close() error { return nil }

// BaseDir returns the root directory snapshots are written to.
func (l *LocalClient) BaseDir() string { return l.baseDir }

// StoreFile writes data under the base directory, creating parent folders.
func (l *LocalClient) StoreFile(ctx context.Context, path string, data []byte) error {
	full := filepath.Join(l.baseDir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(full, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}

// GetFile reads a stored file back.
func (l *LocalClient) GetFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.baseDir, filepath.FromSlash(path)))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return data, nil
}

// ListSnapshots walks the base directory for snapshot pages, newest first.
func (l *LocalClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	var pages []string
	err := filepath.Walk(l.baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if info.IsDir() || info.Name() != "index.html" {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if strings.Contains(rel, "Snapshot-") {
			pages = append(pages, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk snapshot directory: %w", err)
	}

	// Folder names embed the timestamp, so the lexicographic order is the
	// chronological one; reverse it for newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(pages)))
	if limit > 0 && limit < len(pages) {
		pages = pages[:limit]
	}
	return pages, nil
}

// FileExists checks whether a file exists under the base directory.
func (l *LocalClient) FileExists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(filepath.Join(l.baseDir, filepath.FromSlash(path)))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
