package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/config"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/controller"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dashboard"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dataset"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/fetchers"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/llm"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/metrics"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/server"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/session"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/snapshot"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	version := config.GetVersion()
	logger.Info("Starting European CO2 Intensity Dashboard", map[string]interface{}{
		"version": version,
		"port":    cfg.Port,
		"bucket":  cfg.TimeBucket,
	})

	// The dataset must be on disk before anything else can start.
	if err := fetchers.NewDatasetFetcher().EnsureDataset(ctx, cfg.DataFile, cfg.DataURL); err != nil {
		logger.Fatal("Failed to obtain dataset", err)
	}
	store, err := dataset.Load(cfg.DataFile, dataset.Options{MinYear: cfg.MinYear})
	if err != nil {
		logger.Fatal("Failed to load dataset", err)
	}

	renderer := charts.NewRenderer(charts.Config{
		MetricLabel: models.CO2IntensityLabel,
		TimeBucket:  cfg.BucketUnit(),
		ShowExtrema: cfg.ExtremaMarkers,
	})

	ctrl := controller.New(store, renderer, models.CO2Intensity, cfg.BucketUnit(), cfg.AnimationInterval)
	defaultSelection := ctrl.Sanitize(cfg.DefaultSelection())

	sessions := session.NewManager(defaultSelection, cfg.SessionTTL)
	sessions.StartSweeper(cfg.SessionTTL / 2)

	builder, err := dashboard.NewBuilder(cfg.BucketUnit())
	if err != nil {
		logger.Fatal("Failed to build dashboard template", err)
	}

	storageClient, err := storage.NewClient(ctx, storage.Mode(cfg.StorageMode), cfg.SnapshotDir, cfg.GCSBucket)
	if err != nil {
		logger.Fatal("Failed to initialize snapshot storage", err)
	}

	snapshotter := snapshot.New(func() ([]aggregate.LineSeries, aggregate.HeatmapMatrix) {
		return ctrl.ComputeFor(defaultSelection)
	}, renderer, storageClient)
	if err := snapshotter.StartCron(cfg.SnapshotCron); err != nil {
		logger.Fatal("Failed to schedule snapshots", err)
	}

	srv := server.NewServer(server.Options{
		Config:      cfg,
		Store:       store,
		Sessions:    sessions,
		Controller:  ctrl,
		Dashboard:   builder,
		News:        fetchers.NewNewsFetcher(cfg.NewsFeedURL, 15*time.Minute, 10),
		LLM:         llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel),
		Metrics:     metrics.New(sessions.Count),
		Storage:     storageClient,
		Snapshotter: snapshotter,
		Version:     version,
	})
	defer srv.Close()

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(runCtx); err != nil {
		logger.Error("Server stopped with error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
