package gmaps

import (
	"errors"
	"testing"

	"maps-scraper/models"
)

const feedMarkup = `
<html><body>
<div role="feed">
  <div class="Nv2PK THOPZb xyz">
    <a class="hfpxzc" href="https://www.google.com/maps/place/Restoran+A/data=!3d3.1234!4d101.5678!16s"></a>
    <div class="qBF1Pd fontHeadlineSmall">Restoran A</div>
    <span class="MW4etd">4.5</span>
    <div class="UaQhfb fontBodyMedium">
      <div class="W4Efsd"><span>ignored header row</span></div>
      <div class="W4Efsd">
        <div class="W4Efsd"><span> · </span><span>Restaurant</span><span>Jalan Satu</span></div>
      </div>
    </div>
  </div>
  <div class="Nv2PK THOPZb xyz">
    <div class="qBF1Pd fontHeadlineSmall">Kedai B</div>
  </div>
  <div class="Nv2PK other">not a result card</div>
</div>
</body></html>`

func testUnit() models.QueryUnit {
	return models.QueryUnit{
		Query:    "restaurant near petaling, selangor",
		Channel:  "restaurant",
		District: "petaling",
		State:    "selangor",
	}
}

func TestDiscoveryExtractsListings(t *testing.T) {
	sess := &fakeSession{markup: feedMarkup}
	// End marker shows up after the first scroll.
	sess.onWait = func(selector string) error {
		if selector == endMarkerSelector && sess.scrolls == 0 {
			return errors.New("not yet")
		}
		return nil
	}

	d := NewDiscovery(testConfig(), testLogger(), "https://maps.test", factoryFor(sess))
	listings := d.Run(testUnit())

	if len(listings) != 2 {
		t.Fatalf("got %d listings, want 2", len(listings))
	}

	first := listings[0]
	if first.Name == nil || *first.Name != "Restoran A" {
		t.Errorf("name: got %v", first.Name)
	}
	if first.DetailURL == nil {
		t.Fatal("detail URL missing")
	}
	if first.Rating == nil || *first.Rating != 4.5 {
		t.Errorf("rating: got %v", first.Rating)
	}
	if first.Category == nil || *first.Category != "Restaurant" {
		t.Errorf("category: got %v", first.Category)
	}
	if first.Latitude == nil || *first.Latitude != 3.1234 {
		t.Errorf("latitude: got %v", first.Latitude)
	}
	if first.Longitude == nil || *first.Longitude != 101.5678 {
		t.Errorf("longitude: got %v", first.Longitude)
	}
	if first.SearchedState != "selangor" {
		t.Errorf("searched state: got %q", first.SearchedState)
	}

	// A card missing sub-elements yields nil fields, never an aborted card.
	second := listings[1]
	if second.Name == nil || *second.Name != "Kedai B" {
		t.Errorf("second name: got %v", second.Name)
	}
	if second.DetailURL != nil || second.Rating != nil || second.Category != nil {
		t.Errorf("second card should have nil detail fields: %+v", second)
	}
	if second.Latitude != nil || second.Longitude != nil {
		t.Error("second card should have nil coordinates")
	}

	if !sess.closed {
		t.Error("session must be closed after the unit completes")
	}
}

func TestDiscoveryScrollCapIsNonFatal(t *testing.T) {
	sess := &fakeSession{markup: feedMarkup}
	// The end marker never appears and the feed keeps growing.
	sess.onWait = func(selector string) error {
		if selector == endMarkerSelector {
			return errors.New("never")
		}
		return nil
	}

	cfg := testConfig()
	d := NewDiscovery(cfg, testLogger(), "https://maps.test", factoryFor(sess))
	listings := d.Run(testUnit())

	if sess.scrolls != cfg.MaxScrolls {
		t.Errorf("scrolls: got %d, want cap %d", sess.scrolls, cfg.MaxScrolls)
	}
	// Partial results are still extracted.
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2", len(listings))
	}
}

func TestDiscoverySearchRetriesThenGivesUp(t *testing.T) {
	sess := &fakeSession{markup: feedMarkup}
	sess.onWait = func(selector string) error {
		if selector == searchBoxSelector {
			return errors.New("timeout")
		}
		return nil
	}

	cfg := testConfig()
	d := NewDiscovery(cfg, testLogger(), "https://maps.test", factoryFor(sess))
	listings := d.Run(testUnit())

	if listings != nil {
		t.Errorf("got %d listings, want none after search failure", len(listings))
	}
	if sess.navCount != cfg.MaxRetries {
		t.Errorf("navigations: got %d, want %d attempts", sess.navCount, cfg.MaxRetries)
	}
	if !sess.closed {
		t.Error("session must be closed on the failure path")
	}
}

func TestDiscoverySessionFailure(t *testing.T) {
	factory := func() (Session, error) { return nil, errors.New("no browser") }
	d := NewDiscovery(testConfig(), testLogger(), "https://maps.test", factory)

	if listings := d.Run(testUnit()); listings != nil {
		t.Errorf("got %d listings, want none without a session", len(listings))
	}
}

func TestDiscoveryMissingFeedStillExtracts(t *testing.T) {
	sess := &fakeSession{markup: feedMarkup}
	sess.onWait = func(selector string) error {
		if selector == feedSelector {
			return errors.New("no feed")
		}
		return nil
	}

	d := NewDiscovery(testConfig(), testLogger(), "https://maps.test", factoryFor(sess))
	listings := d.Run(testUnit())

	if sess.scrolls != 0 {
		t.Errorf("scrolls: got %d, want 0 without a feed", sess.scrolls)
	}
	if len(listings) != 2 {
		t.Errorf("got %d listings, want 2 from the rendered markup", len(listings))
	}
}
