// Command snapshot takes one dashboard snapshot from the command line:
// it loads the dataset, renders the default selection's PNG, XLSX and
// printable HTML, and stores them without starting the HTTP server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/banana0000/Europen-Monthlty-Electricity/internal/aggregate"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/charts"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/config"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/controller"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/dataset"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/fetchers"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/logger"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/models"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/snapshot"
	"github.com/banana0000/Europen-Monthlty-Electricity/internal/storage"
)

func main() {
	if err := run(); err != nil {
		logger.Error("Snapshot failed", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := fetchers.NewDatasetFetcher().EnsureDataset(ctx, cfg.DataFile, cfg.DataURL); err != nil {
		return err
	}
	store, err := dataset.Load(cfg.DataFile, dataset.Options{MinYear: cfg.MinYear})
	if err != nil {
		return err
	}

	renderer := charts.NewRenderer(charts.Config{
		MetricLabel: models.CO2IntensityLabel,
		TimeBucket:  cfg.BucketUnit(),
		ShowExtrema: cfg.ExtremaMarkers,
	})
	ctrl := controller.New(store, renderer, models.CO2Intensity, cfg.BucketUnit(), cfg.AnimationInterval)
	selection := ctrl.Sanitize(cfg.DefaultSelection())

	client, err := storage.NewClient(ctx, storage.Mode(cfg.StorageMode), cfg.SnapshotDir, cfg.GCSBucket)
	if err != nil {
		return err
	}
	defer client.Close()

	snapshotter := snapshot.New(func() ([]aggregate.LineSeries, aggregate.HeatmapMatrix) {
		return ctrl.ComputeFor(selection)
	}, renderer, client)

	result, err := snapshotter.Run(ctx)
	if err != nil {
		return err
	}
	for _, file := range result.Files {
		fmt.Println(file)
	}
	return nil
}
