package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"zelr-valuation/cache"
	"zelr-valuation/config"
	"zelr-valuation/models"
	"zelr-valuation/services"
	"zelr-valuation/storage"
	"zelr-valuation/utils"
)

func main() {
	logger := utils.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// run executes one valuation run. Every resource it opens is closed before it
// returns, including on error.
func run(logger *utils.Logger) error {
	cfg := config.Load()
	logger.SetLevel(utils.ParseLevel(cfg.LogLevel))

	engine, err := config.LoadEngine(cfg.EngineConfigPath)
	if err != nil {
		return fmt.Errorf("load engine config: %w", err)
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = engine.PageSize
	}
	if pageSize <= 0 {
		pageSize = services.DefaultPageSize
	}
	locations := services.DefaultLocationTable().WithOverrides(engine.Location, engine.DefaultLocationScore)
	runID := uuid.New().String()

	logger.Info("=== Zelr valuation run %s starting ===", runID)
	logger.Info("Config: source=%s | workers=%d | zoom=%.1f | page size=%d",
		cfg.SnapshotSource, cfg.ScoreWorkers, cfg.MapZoom, pageSize)

	retry := utils.RetryConfig{MaxAttempts: cfg.MaxRetries, BaseDelay: 2 * time.Second, Logger: logger}

	var store *storage.PostgresStore
	if cfg.PostgresEnabled || cfg.SnapshotSource == "postgres" {
		store, err = storage.NewPostgresStore(cfg.DSN(), retry)
		if err != nil {
			return fmt.Errorf("connect to PostgreSQL: %w", err)
		}
		defer store.Close()
	}

	var source storage.SnapshotSource
	switch cfg.SnapshotSource {
	case "postgres":
		source = store
	case "csv":
		source, err = storage.NewCSVReader(cfg.SnapshotPath)
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer source.Close()
	default:
		return fmt.Errorf("unknown SNAPSHOT_SOURCE %q (want csv or postgres)", cfg.SnapshotSource)
	}

	rawListings, err := source.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	logger.Info("Loaded %d raw listings from %s", len(rawListings), cfg.SnapshotSource)

	listings := services.NewCleaner(logger).Clean(rawListings)
	if len(listings) == 0 {
		return errors.New("all listings were dropped during cleaning")
	}

	valuation := services.NewValuationService(logger, locations, cfg.ScoreWorkers)
	baseline, scored := valuation.Run(listings)

	results := services.Search(scored, services.SearchQuery{
		Text: cfg.SearchText,
		Sort: services.ParseSortOrder(cfg.SortOrder),
	})

	north, south, east, west, ok, err := config.ParseViewport(cfg.Viewport)
	if err != nil {
		logger.Warn("Ignoring viewport: %v", err)
	}
	if ok {
		bounds := models.Bounds{North: north, South: south, East: east, West: west}
		results = services.FilterByBounds(results, bounds)
		logger.Info("Viewport N%.4f S%.4f E%.4f W%.4f → %d listings", north, south, east, west, len(results))
	}

	items := clusterResults(logger, cfg, results)
	clusters := 0
	for _, it := range items {
		if it.Kind == models.MapItemCluster {
			clusters++
		}
	}
	logger.Info("Map at zoom %.1f: %d pins (%d clusters) for %d listings",
		cfg.MapZoom, len(items), clusters, len(results))

	page := services.Paginate(results, 1, pageSize)
	logger.Info("Results page 1/%d (%d listings, sort=%s)",
		services.TotalPages(len(results), pageSize), len(page), services.ParseSortOrder(cfg.SortOrder))
	for _, l := range page {
		logger.Debug("  %3d  %-32s %-12s $%d", l.Score, l.Address, l.City, l.Price)
	}

	csvWriter, err := storage.NewCSVWriter(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("create CSV writer: %w", err)
	}
	defer csvWriter.Close()

	writers := []storage.ScoreWriter{csvWriter}
	if store != nil && cfg.PostgresEnabled {
		writers = append(writers, store)
	}

	var g errgroup.Group
	if store != nil && cfg.PostgresEnabled && cfg.SnapshotSource == "csv" {
		g.Go(func() error {
			if err := store.ReplaceSnapshot(listings); err != nil {
				return fmt.Errorf("postgres snapshot: %w", err)
			}
			return nil
		})
	}
	for _, w := range writers {
		g.Go(func() error {
			if err := w.WriteScores(runID, scored); err != nil {
				return fmt.Errorf("export %T: %w", w, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Export failed: %v", err)
	} else {
		logger.Info("Scores saved to %s", cfg.OutputPath)
		if len(writers) > 1 {
			logger.Info("Scores stored in PostgreSQL (table: listing_scores, run %s)", runID)
		}
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(insightSvc.Generate(scored, baseline))

	fmt.Printf("  Done. Run %s → %s\n\n", runID, cfg.OutputPath)
	return nil
}

// clusterResults groups results into map pins, through Redis when configured.
func clusterResults(logger *utils.Logger, cfg *config.Config, results []models.ScoredListing) []models.MapItem {
	if cfg.RedisAddr == "" {
		return services.ClusterForZoom(results, cfg.MapZoom)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, err := cache.NewClient(ctx, cache.ClientConfig{
		Addr:       cfg.RedisAddr,
		Password:   cfg.RedisPassword,
		DB:         cfg.RedisDB,
		MaxRetries: cfg.MaxRetries,
	})
	if err != nil {
		logger.Warn("Redis unavailable, clustering without cache: %v", err)
		return services.ClusterForZoom(results, cfg.MapZoom)
	}
	defer rdb.Close()

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	return cache.NewClusterCache(rdb, ttl, logger).ClusterForZoom(ctx, results, cfg.MapZoom)
}
