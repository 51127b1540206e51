package storage

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
)

// GCSClient stores snapshot files in a Google Cloud Storage bucket.
type GCSClient struct {
	client *storage.Client
	bucket string
}

// NewGCSClient creates a GCS-backed storage client using ambient credentials.
func NewGCSClient(ctx context.Context, bucketName string) (*GCSClient, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}
	return &GCSClient{client: client, bucket: bucketName}, nil
}

// Close closes the underlying GCS client.
func (g *GCSClient) Close() error {
	return g.client.Close()
}

// StoreFile uploads data to the bucket with a content type derived from the
// file extension.
func (g *GCSClient) StoreFile(ctx context.Context, path string, data []byte) error {
	logger.Debug("Storing file to GCS", map[string]interface{}{
		"bucket": g.bucket,
		"path":   path,
	})

	writer := g.client.Bucket(g.bucket).Object(path).NewWriter(ctx)
	writer.ContentType = ContentType(path)
	writer.CacheControl = "public, max-age=3600"
	writer.Metadata = map[string]string{
		"stored-at": time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write file %s to GCS: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize GCS upload of %s: %w", path, err)
	}
	return nil
}

// GetFile downloads a file from the bucket.
func (g *GCSClient) GetFile(ctx context.Context, path string) ([]byte, error) {
	reader, err := g.client.Bucket(g.bucket).Object(path).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS file %s: %w", path, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read GCS file %s: %w", path, err)
	}
	return data, nil
}

// ListSnapshots lists stored snapshot pages in the bucket, newest first.
func (g *GCSClient) ListSnapshots(ctx context.Context, limit int) ([]string, error) {
	it := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{})

	var pages []string
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list GCS objects: %w", err)
		}
		if strings.Contains(attrs.Name, "Snapshot-") && strings.HasSuffix(attrs.Name, "/index.html") {
			pages = append(pages, attrs.Name)
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(pages)))
	if limit > 0 && limit < len(pages) {
		pages = pages[:limit]
	}
	return pages, nil
}

// FileExists checks whether an object exists in the bucket.
func (g *GCSClient) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(path).Attrs(ctx)
	if err == storage.ErrObjectNotExist {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat GCS file %s: %w", path, err)
	}
	return true, nil
}
