package services

import (
	"maps-scraper/models"
	"maps-scraper/utils"
)

// Merger joins detail records onto listings by detail URL with left-join
// semantics: a listing without a matching detail record keeps nil address
// and phone fields.
type Merger struct {
	logger *utils.Logger
}

// NewMerger creates a Merger with the given logger.
func NewMerger(logger *utils.Logger) *Merger {
	return &Merger{logger: logger}
}

// Merge builds the final dataset rows. Resolution columns are left nil
// here; the Resolver annotates them afterwards.
func (m *Merger) Merge(listings []*models.Listing, details []*models.Detail) []*models.Place {
	byURL := make(map[string]*models.Detail, len(details))
	for _, d := range details {
		byURL[d.DetailURL] = d
	}

	places := make([]*models.Place, 0, len(listings))
	matched := 0

	for _, l := range listings {
		p := &models.Place{
			SearchedQuery:    l.SearchedQuery,
			SearchedChannel:  l.SearchedChannel,
			SearchedDistrict: l.SearchedDistrict,
			SearchedState:    l.SearchedState,
			Name:             l.Name,
			DetailURL:        l.DetailURL,
			Rating:           l.Rating,
			Category:         l.Category,
			Latitude:         l.Latitude,
			Longitude:        l.Longitude,
			ScrapedAt:        l.ScrapedAt,
		}

		if l.DetailURL != nil {
			if d, ok := byURL[*l.DetailURL]; ok {
				p.FullAddress = d.FullAddress
				p.Phone = d.Phone
				matched++
			}
		}

		places = append(places, p)
	}

	m.logger.Info("[merger] merged %d listings with %d detail records (%d matched)",
		len(listings), len(details), matched)
	return places
}
