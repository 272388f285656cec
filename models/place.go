package models

import "time"

// QueryUnit is one independent discovery task: a search query built from a
// (channel, district, state) combination. Immutable once constructed.
type QueryUnit struct {
	Query    string
	Channel  string
	District string
	State    string
}

// Listing holds one place discovered in the search feed. Pointer fields are
// nil when the rendered markup lacked the corresponding element.
type Listing struct {
	SearchedQuery    string
	SearchedChannel  string
	SearchedDistrict string
	SearchedState    string
	Name             *string
	DetailURL        *string
	Rating           *float64
	Category         *string
	Latitude         *float64
	Longitude        *float64
	ScrapedAt        time.Time
}

// Detail holds the contact fields scraped from one listing detail page.
// A pointer to the "-" sentinel means the field was looked for and not
// found; nil means the enrichment unit itself failed.
type Detail struct {
	DetailURL   string
	FullAddress *string
	Phone       *string
}

// NotFound is the sentinel written into Detail fields that were attempted
// but never located on the page.
const NotFound = "-"

// ResolvedAddress is the administrative hierarchy extracted from a raw
// address string. Any level the resolver could not determine stays nil.
type ResolvedAddress struct {
	Postcode *string
	State    *string
	District *string
	Area     *string
}

// Place is one row of the final dataset: a discovered listing merged with
// its detail record and the resolved address hierarchy.
type Place struct {
	SearchedQuery    string
	SearchedChannel  string
	SearchedDistrict string
	SearchedState    string
	Name             *string
	DetailURL        *string
	Rating           *float64
	Category         *string
	Latitude         *float64
	Longitude        *float64
	FullAddress      *string
	Phone            *string
	Postcode         *string
	State            *string
	District         *string
	Area             *string
	ScrapedAt        time.Time
}

// CoverageReport summarises how complete the final dataset is.
type CoverageReport struct {
	TotalPlaces      int
	WithCoordinates  int
	WithAddress      int
	WithPhone        int
	ResolvedPostcode int
	ResolvedState    int
	ResolvedDistrict int
	ResolvedArea     int
	PlacesByState    map[string]int
	PlacesByChannel  map[string]int
}
