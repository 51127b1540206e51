package fetchers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleCSV = "Area,Category,Variable,Date,Value\nGermany,Power sector emissions,CO2 intensity,2021-01-01,350.5\n"

func TestEnsureDatasetDownloadsMissingFile(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "data", "monthly.csv")
	f := NewDatasetFetcher()
	if err := f.EnsureDataset(context.Background(), path, server.URL); err != nil {
		t.Fatalf("EnsureDataset failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Dataset file not written: %v", err)
	}
	if string(content) != sampleCSV {
		t.Errorf("Dataset content mismatch: got %q", content)
	}
	if hits != 1 {
		t.Errorf("Expected 1 download, got %d", hits)
	}
}

func TestEnsureDatasetSkipsExistingFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Existing dataset must not be re-downloaded")
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "monthly.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("Failed to seed dataset: %v", err)
	}

	f := NewDatasetFetcher()
	if err := f.EnsureDataset(context.Background(), path, server.URL); err != nil {
		t.Fatalf("EnsureDataset failed: %v", err)
	}
}

func TestEnsureDatasetMissingFileNoURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "monthly.csv")
	f := NewDatasetFetcher()
	if err := f.EnsureDataset(context.Background(), path, ""); err == nil {
		t.Fatal("Expected error when dataset is missing and no URL is configured")
	}
}

func TestDownloadRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "monthly.csv")
	f := NewDatasetFetcher()
	f.client.SetRetryCount(0)
	if err := f.Download(context.Background(), server.URL, path); err == nil {
		t.Fatal("Expected error on HTTP 404")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Failed download must not leave a dataset file behind")
	}
}

func TestDownloadRejectsEmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "monthly.csv")
	f := NewDatasetFetcher()
	if err := f.Download(context.Background(), server.URL, path); err == nil {
		t.Fatal("Expected error on empty response body")
	}
}
