package gmaps

import (
	"testing"

	"maps-scraper/models"
)

func strp(s string) *string { return &s }

func TestDetailURLsDeduplicates(t *testing.T) {
	s := New(testConfig(), testLogger(), "https://maps.test", factoryFor(&fakeSession{}))

	listings := []*models.Listing{
		{DetailURL: strp("https://maps/place/a")},
		{DetailURL: strp("https://maps/place/b")},
		{DetailURL: strp("https://maps/place/a")},
		{DetailURL: nil},
		{DetailURL: strp("")},
	}

	urls := s.DetailURLs(listings)
	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(urls), urls)
	}
	if urls[0] != "https://maps/place/a" || urls[1] != "https://maps/place/b" {
		t.Errorf("first-seen order not preserved: %v", urls)
	}
}

func TestDiscoverFansOutAllUnits(t *testing.T) {
	factory := func() (Session, error) {
		sess := &fakeSession{markup: feedMarkup}
		return sess, nil
	}
	s := New(testConfig(), testLogger(), "https://maps.test", factory)

	units := []models.QueryUnit{
		{Query: "restaurant near petaling, selangor", Channel: "restaurant", District: "petaling", State: "selangor"},
		{Query: "cafe near klang, selangor", Channel: "cafe", District: "klang", State: "selangor"},
	}

	listings := s.Discover(units)
	// Two cards per unit.
	if len(listings) != 4 {
		t.Fatalf("got %d listings, want 4", len(listings))
	}

	byChannel := make(map[string]int)
	for _, l := range listings {
		byChannel[l.SearchedChannel]++
	}
	if byChannel["restaurant"] != 2 || byChannel["cafe"] != 2 {
		t.Errorf("unit attribution: %v", byChannel)
	}
}

func TestEnrichCollectsEveryUnit(t *testing.T) {
	factory := func() (Session, error) {
		return &fakeSession{
			attrs: map[string]string{addressSelector: "Address: Jalan Dua"},
		}, nil
	}
	s := New(testConfig(), testLogger(), "https://maps.test", factory)

	urls := []string{"https://maps/place/a", "https://maps/place/b", "https://maps/place/c"}
	details := s.Enrich(urls)

	if len(details) != len(urls) {
		t.Fatalf("got %d details, want %d", len(details), len(urls))
	}
	seen := make(map[string]bool)
	for _, d := range details {
		seen[d.DetailURL] = true
		if d.FullAddress == nil || *d.FullAddress != "Jalan Dua" {
			t.Errorf("detail %s: address %v", d.DetailURL, d.FullAddress)
		}
	}
	for _, u := range urls {
		if !seen[u] {
			t.Errorf("missing detail record for %s", u)
		}
	}
}
