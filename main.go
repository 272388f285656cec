package main

import (
	"fmt"
	"os"
	"time"

	"maps-scraper/config"
	"maps-scraper/models"
	"maps-scraper/scraper/gmaps"
	"maps-scraper/services"
	"maps-scraper/storage"
	"maps-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Maps Place Scraper starting ===")
	logger.Info("Config — discovery workers: %d | enrich workers: %d | retries: %d | threshold: %d",
		cfg.DiscoveryWorkers, cfg.EnrichWorkers, cfg.MaxRetries, cfg.MatchThreshold)

	params, err := config.LoadSearchParams(cfg.SearchParamsPath)
	if err != nil {
		logger.Error("Failed to load search parameters: %v", err)
		os.Exit(1)
	}

	gazetteer, err := services.LoadGazetteer(cfg.GazetteerPath)
	if err != nil {
		logger.Error("Failed to load gazetteer: %v", err)
		os.Exit(1)
	}

	units := params.QueryUnits()
	if len(units) == 0 {
		logger.Error("Search parameters produced no query units. Exiting.")
		os.Exit(1)
	}
	logger.Info("Built %d query units from %s", len(units), cfg.SearchParamsPath)

	browser := gmaps.NewBrowser(cfg)
	defer browser.Close()

	scraper := gmaps.New(cfg, logger, params.GoogleMaps.URL, browser.NewSession)

	// Phase 1: discovery
	listings := scraper.Discover(units)
	if len(listings) == 0 {
		logger.Warn("No listings were discovered; emitting an empty dataset")
	}

	if listingCSV, err := storage.NewListingCSV(cfg.ListingCSVPath); err != nil {
		logger.Error("Failed to create phase-1 CSV writer: %v", err)
	} else {
		if err := listingCSV.WriteListings(listings); err != nil {
			logger.Error("Phase-1 CSV write failed: %v", err)
		} else {
			logger.Info("Phase-1 listings saved to %s", cfg.ListingCSVPath)
		}
		_ = listingCSV.Close()
	}

	// Phase 2: detail enrichment
	details := scraper.Enrich(scraper.DetailURLs(listings))

	// Phase 3: merge and resolve the address hierarchy
	merger := services.NewMerger(logger)
	places := merger.Merge(listings, details)

	resolver := services.NewResolver(gazetteer, cfg.MatchThreshold, logger)
	resolver.Annotate(places)

	if placeCSV, err := storage.NewPlaceCSV(cfg.PlaceCSVPath); err != nil {
		logger.Error("Failed to create output CSV writer: %v", err)
	} else {
		if err := placeCSV.WritePlaces(places); err != nil {
			logger.Error("Output CSV write failed: %v", err)
		} else {
			logger.Info("Geocoded dataset saved to %s", cfg.PlaceCSVPath)
		}
		_ = placeCSV.Close()
	}

	dataset := places
	if stored := storePlaces(cfg, logger, places); stored != nil {
		dataset = stored
		logger.Info("Coverage computed over the accumulated warehouse dataset (%d rows)", len(stored))
	}

	coverage := services.NewCoverageService(logger)
	coverage.Print(coverage.Generate(dataset))

	fmt.Printf("  Done. %d places → %s (+ PostgreSQL places table when reachable)\n\n",
		len(places), cfg.PlaceCSVPath)
}

// storePlaces loads the dataset into the warehouse table and returns the
// accumulated warehouse contents for reporting. Postgres being down degrades
// to CSV-only output and returns nil; it never fails the run.
func storePlaces(cfg *config.Config, logger *utils.Logger, places []*models.Place) []*models.Place {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}

	var pgWriter *storage.PostgresWriter
	err := retry.Do("postgres-connect", func() error {
		var connErr error
		pgWriter, connErr = storage.NewPostgresWriter(cfg.DSN())
		return connErr
	})
	if err != nil {
		logger.Error("PostgreSQL unavailable, keeping CSV output only: %v", err)
		return nil
	}
	defer pgWriter.Close()

	if err := pgWriter.WritePlaces(places); err != nil {
		logger.Error("PostgreSQL write failed: %v", err)
		return nil
	}
	logger.Info("Dataset loaded into PostgreSQL (table: places)")

	stored, err := pgWriter.FetchAll()
	if err != nil {
		logger.Warn("Could not read back the warehouse dataset: %v", err)
		return nil
	}
	return stored
}
