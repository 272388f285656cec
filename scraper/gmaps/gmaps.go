package gmaps

import (
	"sync"

	"maps-scraper/config"
	"maps-scraper/models"
	"maps-scraper/utils"
)

// Scraper fans discovery and enrichment units out across bounded worker
// pools. Discovery runs on a small pool out of politeness toward the
// search surface; enrichment units are shorter-lived and get a larger one.
type Scraper struct {
	cfg      *config.Config
	logger   *utils.Logger
	discover *Discovery
	enrich   *Enricher

	discoveryPool *utils.WorkerPool
	enrichPool    *utils.WorkerPool
	seen          *utils.URLSet
}

// New creates a Scraper whose units open sessions from the given factory.
func New(cfg *config.Config, logger *utils.Logger, mapsURL string, factory SessionFactory) *Scraper {
	return &Scraper{
		cfg:           cfg,
		logger:        logger,
		discover:      NewDiscovery(cfg, logger, mapsURL, factory),
		enrich:        NewEnricher(cfg, logger, factory),
		discoveryPool: utils.NewWorkerPool(cfg.DiscoveryWorkers, cfg.RateLimitMs),
		enrichPool:    utils.NewWorkerPool(cfg.EnrichWorkers, cfg.RateLimitMs),
		seen:          utils.NewURLSet(),
	}
}

// Discover runs every query unit in parallel and returns the flattened
// listings. Unit failures contribute empty results; ordering across units
// is not guaranteed.
func (s *Scraper) Discover(units []models.QueryUnit) []*models.Listing {
	s.logger.Info("[scraper] phase 1: %d query units on %d workers",
		len(units), s.cfg.DiscoveryWorkers)

	var mu sync.Mutex
	var all []*models.Listing

	for _, unit := range units {
		u := unit
		s.discoveryPool.Submit(func() {
			found := s.discover.Run(u)
			mu.Lock()
			all = append(all, found...)
			mu.Unlock()
		})
	}
	s.discoveryPool.Wait()

	s.logger.Info("[scraper] phase 1 complete: %d listings", len(all))
	return all
}

// DetailURLs returns the unique detail references across the listings,
// preserving first-seen order.
func (s *Scraper) DetailURLs(listings []*models.Listing) []string {
	var urls []string
	for _, l := range listings {
		if l.DetailURL == nil || *l.DetailURL == "" {
			continue
		}
		if s.seen.Add(*l.DetailURL) {
			urls = append(urls, *l.DetailURL)
		}
	}
	return urls
}

// Enrich visits every detail URL in parallel and returns the detail
// records, merged later by URL.
func (s *Scraper) Enrich(urls []string) []*models.Detail {
	s.logger.Info("[scraper] phase 2: %d detail pages on %d workers",
		len(urls), s.cfg.EnrichWorkers)

	var mu sync.Mutex
	var details []*models.Detail

	for _, url := range urls {
		u := url
		s.enrichPool.Submit(func() {
			detail := s.enrich.Run(u)
			mu.Lock()
			details = append(details, detail)
			mu.Unlock()
		})
	}
	s.enrichPool.Wait()

	s.logger.Info("[scraper] phase 2 complete: %d detail records", len(details))
	return details
}
