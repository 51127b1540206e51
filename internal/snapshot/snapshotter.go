package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

// ComputeFunc recomputes the aggregates the snapshot should capture.
type ComputeFunc func() ([]aggregate.LineSeries, aggregate.HeatmapMatrix)

// Result describes one stored snapshot.
type Result struct {
	FolderPath string   `json:"folder_path"`
	Files      []string `json:"files"`
}

// Snapshotter renders the current default view to PNG, XLSX and a printable
// HTML page, and stores all three under a timestamped folder.
type Snapshotter struct {
	compute  ComputeFunc
	renderer *charts.Renderer
	store    storage.Client
	cron     *cron.Cron
}

// New creates a snapshotter over the given storage client.
func New(compute ComputeFunc, renderer *charts.Renderer, store storage.Client) *Snapshotter {
	return &Snapshotter{
		compute:  compute,
		renderer: renderer,
		store:    store,
	}
}

// Run takes one snapshot. The PNG is skipped (with a warning) when there is
// nothing to draw; the workbook and page always render, falling back to the
// placeholder messages.
func (s *Snapshotter) Run(ctx context.Context) (*Result, error) {
	now := time.Now().UTC()
	folder := storage.SnapshotFolderPath(now)
	series, matrix := s.compute()

	result := &Result{FolderPath: folder}

	var png bytes.Buffer
	if err := s.renderer.RenderLinePNG(&png, series); err != nil {
		logger.Warn("Snapshot PNG skipped", map[string]interface{}{"reason": err.Error()})
	} else {
		if err := s.store.StoreFile(ctx, folder+"/linechart.png", png.Bytes()); err != nil {
			return nil, fmt.Errorf("failed to store snapshot PNG: %w", err)
		}
		result.Files = append(result.Files, folder+"/linechart.png")
	}

	workbook, err := BuildWorkbook(series, matrix)
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot workbook: %w", err)
	}
	var xlsx bytes.Buffer
	_, err = workbook.WriteTo(&xlsx)
	workbook.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot workbook: %w", err)
	}
	if err := s.store.StoreFile(ctx, folder+"/data.xlsx", xlsx.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to store snapshot workbook: %w", err)
	}
	result.Files = append(result.Files, folder+"/data.xlsx")

	var page bytes.Buffer
	if err := s.renderer.RenderPrintablePage(&page, series, matrix, now); err != nil {
		return nil, fmt.Errorf("failed to render snapshot page: %w", err)
	}
	if err := s.store.StoreFile(ctx, folder+"/index.html", page.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to store snapshot page: %w", err)
	}
	result.Files = append(result.Files, folder+"/index.html")

	logger.Info("Snapshot stored", map[string]interface{}{
		"folder": folder,
		"files":  len(result.Files),
	})
	return result, nil
}

// StartCron schedules periodic snapshots. An empty spec is a no-op.
func (s *Snapshotter) StartCron(spec string) error {
	if spec == "" {
		return nil
	}
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Run(context.Background()); err != nil {
			logger.Error("Scheduled snapshot failed", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid SNAPSHOT_CRON %q: %w", spec, err)
	}
	c.Start()
	s.cron = c
	logger.Info("Snapshot schedule started", map[string]interface{}{"spec": spec})
	return nil
}

// Stop halts the cron scheduler, waiting for a running job to finish.
func (s *Snapshotter) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}
