package config

import (
	"os"
	"path/filepath"
	"testing"
)

const sampleParams = `
google_maps:
  url: https://www.google.com/maps
channels:
  - channel: restaurant
  - channel: cafe
places:
  - state: selangor
    districts:
      - district: petaling
      - district: klang
  - state: johor
    districts:
      - district: johor bahru
`

func writeParams(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "google_maps_config.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSearchParams(t *testing.T) {
	p, err := LoadSearchParams(writeParams(t, sampleParams))
	if err != nil {
		t.Fatalf("LoadSearchParams: %v", err)
	}
	if p.GoogleMaps.URL != "https://www.google.com/maps" {
		t.Errorf("URL: got %q", p.GoogleMaps.URL)
	}
	if len(p.Channels) != 2 || len(p.Places) != 2 {
		t.Errorf("got %d channels, %d places", len(p.Channels), len(p.Places))
	}
}

func TestQueryUnits(t *testing.T) {
	p, err := LoadSearchParams(writeParams(t, sampleParams))
	if err != nil {
		t.Fatal(err)
	}

	units := p.QueryUnits()
	// 2 channels x 3 districts.
	if len(units) != 6 {
		t.Fatalf("got %d units, want 6", len(units))
	}

	first := units[0]
	if first.Query != "restaurant near petaling, selangor" {
		t.Errorf("query text: got %q", first.Query)
	}
	if first.Channel != "restaurant" || first.District != "petaling" || first.State != "selangor" {
		t.Errorf("unit fields: %+v", first)
	}
}

func TestLoadSearchParamsMissingURL(t *testing.T) {
	if _, err := LoadSearchParams(writeParams(t, "channels: []\n")); err == nil {
		t.Error("params without google_maps.url should be an error")
	}
}

func TestLoadSearchParamsMissingFile(t *testing.T) {
	if _, err := LoadSearchParams(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should be an error")
	}
}
