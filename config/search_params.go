package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"maps-scraper/models"
)

// SearchParams is the YAML document describing what to search for: the maps
// URL, the business channels, and the state/district combinations.
type SearchParams struct {
	GoogleMaps struct {
		URL string `yaml:"url"`
	} `yaml:"google_maps"`
	Channels []struct {
		Channel string `yaml:"channel"`
	} `yaml:"channels"`
	Places []struct {
		State     string `yaml:"state"`
		Districts []struct {
			District string `yaml:"district"`
		} `yaml:"districts"`
	} `yaml:"places"`
}

// LoadSearchParams reads and parses the search-parameter YAML file.
func LoadSearchParams(path string) (*SearchParams, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("search params: read %q: %w", path, err)
	}

	var p SearchParams
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("search params: parse %q: %w", path, err)
	}
	if p.GoogleMaps.URL == "" {
		return nil, fmt.Errorf("search params: %q has no google_maps.url", path)
	}
	return &p, nil
}

// QueryUnits builds one immutable unit of work per channel x district
// combination, with the query text used on the search surface.
func (p *SearchParams) QueryUnits() []models.QueryUnit {
	var units []models.QueryUnit
	for _, ch := range p.Channels {
		for _, place := range p.Places {
			for _, d := range place.Districts {
				units = append(units, models.QueryUnit{
					Query:    fmt.Sprintf("%s near %s, %s", ch.Channel, d.District, place.State),
					Channel:  ch.Channel,
					District: d.District,
					State:    place.State,
				})
			}
		}
	}
	return units
}
