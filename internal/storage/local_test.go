package storage

import (
	"context"
	"testing"
	"time"
)

func TestLocalStoreAndGetFile(t *testing.T) {
	client, err := NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient failed: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	path := "2025/06/01/Snapshot-2025-06-01-12-00-00/index.html"
	if err := client.StoreFile(ctx, path, []byte("<html>snapshot</html>")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	data, err := client.GetFile(ctx, path)
	if err != nil {
		t.Fatalf("GetFile failed: %v", err)
	}
	if string(data) != "<html>snapshot</html>" {
		t.Errorf("GetFile content mismatch: %q", data)
	}
}

func TestLocalFileExists(t *testing.T) {
	client, err := NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient failed: %v", err)
	}
	ctx := context.Background()

	exists, err := client.FileExists(ctx, "missing.png")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if exists {
		t.Error("Missing file reported as existing")
	}

	if err := client.StoreFile(ctx, "chart.png", []byte{1, 2, 3}); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}
	exists, err = client.FileExists(ctx, "chart.png")
	if err != nil {
		t.Fatalf("FileExists failed: %v", err)
	}
	if !exists {
		t.Error("Stored file reported as missing")
	}
}

func TestLocalListSnapshotsNewestFirst(t *testing.T) {
	client, err := NewLocalClient(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalClient failed: %v", err)
	}
	ctx := context.Background()

	times := []time.Time{
		time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 5, 30, 23, 59, 59, 0, time.UTC),
	}
	for _, ts := range times {
		path := SnapshotFolderPath(ts) + "/index.html"
		if err := client.StoreFile(ctx, path, []byte("page")); err != nil {
			t.Fatalf("StoreFile failed: %v", err)
		}
	}
	// A stray non-snapshot file must not show up.
	if err := client.StoreFile(ctx, "notes/index.html", []byte("x")); err != nil {
		t.Fatalf("StoreFile failed: %v", err)
	}

	pages, err := client.ListSnapshots(ctx, 0)
	if err != nil {
		t.Fatalf("ListSnapshots failed: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("Expected 3 snapshots, got %d: %v", len(pages), pages)
	}
	if pages[0] != SnapshotFolderPath(times[1])+"/index.html" {
		t.Errorf("Expected newest snapshot first, got %s", pages[0])
	}
	if pages[2] != SnapshotFolderPath(times[2])+"/index.html" {
		t.Errorf("Expected oldest snapshot last, got %s", pages[2])
	}

	limited, err := client.ListSnapshots(ctx, 1)
	if err != nil {
		t.Fatalf("ListSnapshots with limit failed: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("Expected limit to cap results at 1, got %d", len(limited))
	}
}
