package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	DiscoveryWorkers int
	EnrichWorkers    int
	MaxRetries       int
	RateLimitMs      int

	NavTimeout       time.Duration
	SearchBoxTimeout time.Duration
	SearchBackoff    time.Duration
	SearchSettle     time.Duration
	FeedTimeout      time.Duration
	ScrollPause      time.Duration
	EndMarkerTimeout time.Duration
	MaxScrolls       int
	DetailSettle     time.Duration

	MatchThreshold int

	SearchParamsPath string
	GazetteerPath    string
	ListingCSVPath   string
	PlaceCSVPath     string
	ChromeBin        string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "places_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		DiscoveryWorkers: getEnvInt("DISCOVERY_WORKERS", 2),
		EnrichWorkers:    getEnvInt("ENRICH_WORKERS", 8),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),
		RateLimitMs:      getEnvInt("RATE_LIMIT_MS", 2000),

		NavTimeout:       getEnvDuration("NAV_TIMEOUT_MS", 60000),
		SearchBoxTimeout: getEnvDuration("SEARCH_BOX_TIMEOUT_MS", 15000),
		SearchBackoff:    getEnvDuration("SEARCH_BACKOFF_MS", 5000),
		SearchSettle:     getEnvDuration("SEARCH_SETTLE_MS", 8000),
		FeedTimeout:      getEnvDuration("FEED_TIMEOUT_MS", 10000),
		ScrollPause:      getEnvDuration("SCROLL_PAUSE_MS", 2000),
		EndMarkerTimeout: getEnvDuration("END_MARKER_TIMEOUT_MS", 3000),
		MaxScrolls:       getEnvInt("MAX_SCROLLS", 30),
		DetailSettle:     getEnvDuration("DETAIL_SETTLE_MS", 10000),

		MatchThreshold: getEnvInt("MATCH_THRESHOLD", 85),

		SearchParamsPath: getEnv("SEARCH_PARAMS_PATH", "./google_maps_config.yaml"),
		GazetteerPath:    getEnv("GAZETTEER_PATH", "./state_district_postcode_location.json"),
		ListingCSVPath:   getEnv("LISTING_CSV_PATH", "./output/phase1_results.csv"),
		PlaceCSVPath:     getEnv("PLACE_CSV_PATH", "./output/places_geocoded.csv"),
		ChromeBin:        getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallbackMs int) time.Duration {
	return time.Duration(getEnvInt(key, fallbackMs)) * time.Millisecond
}
