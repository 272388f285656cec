package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"maps-scraper/models"
)

var listingHeader = []string{
	"searched_query", "searched_channel", "searched_district", "searched_state",
	"name", "detail_reference", "rating", "category", "latitude", "longitude",
}

var placeHeader = []string{
	"searched_query", "searched_channel", "searched_district", "searched_state",
	"name", "detail_reference", "rating", "category", "latitude", "longitude",
	"full_address", "phone_number", "postcode", "state", "district", "area",
}

// CSVWriter writes one delimited dataset to a file. It is safe for
// concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewListingCSV creates (or truncates) the phase-1 CSV file and writes its
// header. Intermediate directories are created automatically.
func NewListingCSV(path string) (*CSVWriter, error) {
	return newCSV(path, listingHeader)
}

// NewPlaceCSV creates (or truncates) the final-dataset CSV file and writes
// its header.
func NewPlaceCSV(path string) (*CSVWriter, error) {
	return newCSV(path, placeHeader)
}

func newCSV(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteListings appends the discovery-phase records.
func (c *CSVWriter) WriteListings(listings []*models.Listing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, l := range listings {
		row := []string{
			l.SearchedQuery,
			l.SearchedChannel,
			l.SearchedDistrict,
			l.SearchedState,
			cell(l.Name),
			cell(l.DetailURL),
			floatCell(l.Rating),
			cell(l.Category),
			floatCell(l.Latitude),
			floatCell(l.Longitude),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// WritePlaces appends the merged, geo-resolved records.
func (c *CSVWriter) WritePlaces(places []*models.Place) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, p := range places {
		row := []string{
			p.SearchedQuery,
			p.SearchedChannel,
			p.SearchedDistrict,
			p.SearchedState,
			cell(p.Name),
			cell(p.DetailURL),
			floatCell(p.Rating),
			cell(p.Category),
			floatCell(p.Latitude),
			floatCell(p.Longitude),
			cell(p.FullAddress),
			cell(p.Phone),
			cell(p.Postcode),
			cell(p.State),
			cell(p.District),
			cell(p.Area),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}

func cell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func floatCell(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
