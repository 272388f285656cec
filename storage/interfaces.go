package storage

import "maps-scraper/models"

// PlaceWriter is the interface any final-dataset backend must satisfy.
type PlaceWriter interface {
	WritePlaces(places []*models.Place) error
	Close() error
}

// ListingWriter is the interface for persisting the intermediate
// discovery-phase dataset.
type ListingWriter interface {
	WriteListings(listings []*models.Listing) error
	Close() error
}
