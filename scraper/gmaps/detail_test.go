package gmaps

import (
	"errors"
	"testing"

	"maps-scraper/models"
)

func TestEnricherExtractsAddressAndPhone(t *testing.T) {
	sess := &fakeSession{
		attrs: map[string]string{
			addressSelector: "Address: Jalan Sultan, 50000 Kuala Lumpur",
		},
		attrLists: map[string][]string{
			phoneSelector: {"Copy plus code", "Phone: +60 3-1234 5678"},
		},
	}

	e := NewEnricher(testConfig(), testLogger(), factoryFor(sess))
	d := e.Run("https://maps/place/a")

	if d.FullAddress == nil || *d.FullAddress != "Jalan Sultan, 50000 Kuala Lumpur" {
		t.Errorf("address: got %v", d.FullAddress)
	}
	if d.Phone == nil || *d.Phone != "+60312345678" {
		t.Errorf("phone: got %v", d.Phone)
	}
	if sess.navCount != 1 {
		t.Errorf("navigations: got %d, want 1 (early exit)", sess.navCount)
	}
	if !sess.closed {
		t.Error("session must be closed")
	}
}

func TestEnricherStopsOnceOneFieldIsFound(t *testing.T) {
	sess := &fakeSession{
		attrs: map[string]string{
			addressSelector: "Address: Lot 7, Taman Tun",
		},
	}

	e := NewEnricher(testConfig(), testLogger(), factoryFor(sess))
	d := e.Run("https://maps/place/a")

	if d.FullAddress == nil || *d.FullAddress != "Lot 7, Taman Tun" {
		t.Errorf("address: got %v", d.FullAddress)
	}
	// The phone stays at the sentinel: looked for, not found.
	if d.Phone == nil || *d.Phone != models.NotFound {
		t.Errorf("phone: got %v, want sentinel", d.Phone)
	}
	if sess.navCount != 1 {
		t.Errorf("navigations: got %d, want 1", sess.navCount)
	}
}

func TestEnricherSentinelAfterExhaustedAttempts(t *testing.T) {
	sess := &fakeSession{}

	cfg := testConfig()
	e := NewEnricher(cfg, testLogger(), factoryFor(sess))
	d := e.Run("https://maps/place/a")

	if d.FullAddress == nil || *d.FullAddress != models.NotFound {
		t.Errorf("address: got %v, want sentinel", d.FullAddress)
	}
	if d.Phone == nil || *d.Phone != models.NotFound {
		t.Errorf("phone: got %v, want sentinel", d.Phone)
	}
	if sess.navCount != cfg.MaxRetries {
		t.Errorf("navigations: got %d, want %d attempts", sess.navCount, cfg.MaxRetries)
	}
}

func TestEnricherIgnoresUnrelatedLabels(t *testing.T) {
	sess := &fakeSession{
		attrs: map[string]string{
			addressSelector: "Directions to somewhere",
		},
		attrLists: map[string][]string{
			phoneSelector: {"Copy plus code", "Website: example.com"},
		},
	}

	e := NewEnricher(testConfig(), testLogger(), factoryFor(sess))
	d := e.Run("https://maps/place/a")

	if d.FullAddress == nil || *d.FullAddress != models.NotFound {
		t.Errorf("address: got %v, want sentinel", d.FullAddress)
	}
	if d.Phone == nil || *d.Phone != models.NotFound {
		t.Errorf("phone: got %v, want sentinel", d.Phone)
	}
}

func TestEnricherSessionFailureYieldsNilFields(t *testing.T) {
	factory := func() (Session, error) { return nil, errors.New("no browser") }
	e := NewEnricher(testConfig(), testLogger(), factory)

	d := e.Run("https://maps/place/a")
	// nil, not the sentinel: the unit itself failed.
	if d.FullAddress != nil || d.Phone != nil {
		t.Errorf("failed unit must keep nil fields: %+v", d)
	}
	if d.DetailURL != "https://maps/place/a" {
		t.Errorf("detail URL: got %q", d.DetailURL)
	}
}

func TestEnricherNavigationFailureEveryAttempt(t *testing.T) {
	sess := &fakeSession{navErr: errors.New("net::ERR_TIMED_OUT")}

	cfg := testConfig()
	e := NewEnricher(cfg, testLogger(), factoryFor(sess))
	d := e.Run("https://maps/place/a")

	if sess.navCount != cfg.MaxRetries {
		t.Errorf("navigations: got %d, want %d", sess.navCount, cfg.MaxRetries)
	}
	if d.FullAddress == nil || *d.FullAddress != models.NotFound {
		t.Errorf("address: got %v, want sentinel", d.FullAddress)
	}
}
