// Package fetchers downloads the external inputs of the dashboard: the
// long-format electricity CSV and the optional publisher news feed.
package fetchers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
)

// DatasetFetcher downloads the dataset CSV when it is not already on disk.
type DatasetFetcher struct {
	client *resty.Client
}

// NewDatasetFetcher creates a dataset fetcher with retrying transport.
func NewDatasetFetcher() *DatasetFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetRetryCount(3)
	client.SetRetryWaitTime(2 * time.Second)

	return &DatasetFetcher{client: client}
}

// EnsureDataset makes sure the CSV exists at path, downloading it from url
// when missing. An existing file is never re-downloaded; an empty url with a
// missing file is an error, since the service cannot start without data.
func (f *DatasetFetcher) EnsureDataset(ctx context.Context, path, url string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat dataset %s: %w", path, err)
	}

	if url == "" {
		return fmt.Errorf("dataset %s is missing and no DATA_URL is configured", path)
	}
	return f.Download(ctx, url, path)
}

// Download fetches url and writes the body to path atomically: the payload
// lands in a temp file first so a failed transfer never leaves a truncated
// dataset behind.
func (f *DatasetFetcher) Download(ctx context.Context, url, path string) error {
	logger.Info("Downloading dataset", map[string]interface{}{"url": url, "path": path})

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("failed to download dataset from %s: %w", url, err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("dataset download from %s returned status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return fmt.Errorf("dataset download from %s returned an empty body", url)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory %s: %w", dir, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".dataset-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close dataset file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move dataset into place: %w", err)
	}

	logger.Info("Dataset downloaded", map[string]interface{}{"path": path, "bytes": len(body)})
	return nil
}
