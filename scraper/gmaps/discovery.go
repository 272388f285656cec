package gmaps

import (
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"maps-scraper/config"
	"maps-scraper/models"
	"maps-scraper/utils"
)

const (
	searchBoxSelector = "#searchboxinput"
	feedSelector      = `div[role="feed"]`
	cardSelector      = "div.Nv2PK.THOPZb"
	endMarkerSelector = ".HlvSq"

	nameSelector   = "div.qBF1Pd.fontHeadlineSmall"
	linkSelector   = "a.hfpxzc"
	ratingSelector = "span.MW4etd"
	infoSelector   = "div.UaQhfb.fontBodyMedium"
	infoRowClass   = "div.W4Efsd"
)

// Discovery runs one query unit against the search surface: submit the
// query with bounded retries, scroll the feed until the end marker shows
// (or a hard cap), then extract listings from the rendered markup.
type Discovery struct {
	cfg        *config.Config
	logger     *utils.Logger
	mapsURL    string
	newSession SessionFactory
}

// NewDiscovery creates a Discovery bound to a session factory.
func NewDiscovery(cfg *config.Config, logger *utils.Logger, mapsURL string, factory SessionFactory) *Discovery {
	return &Discovery{cfg: cfg, logger: logger, mapsURL: mapsURL, newSession: factory}
}

// Run executes the unit. Failures degrade to an empty result; they never
// propagate past the unit boundary.
func (d *Discovery) Run(unit models.QueryUnit) []*models.Listing {
	sess, err := d.newSession()
	if err != nil {
		d.logger.Error("[discovery] %q: could not open session: %v", unit.Query, err)
		return nil
	}
	defer sess.Close()

	if !d.search(sess, unit.Query) {
		d.logger.Error("[discovery] %q: search failed after %d attempts — skipping",
			unit.Query, d.cfg.MaxRetries)
		return nil
	}

	d.scrollFeed(sess, unit.Query)

	markup, err := sess.RenderedMarkup()
	if err != nil {
		d.logger.Error("[discovery] %q: could not read rendered markup: %v", unit.Query, err)
		return nil
	}

	listings := d.extractListings(markup, unit)
	d.logger.Info("[discovery] %q: extracted %d listings", unit.Query, len(listings))
	return listings
}

// search submits the query, retrying when the search box never shows up.
func (d *Discovery) search(sess Session, query string) bool {
	for attempt := 1; attempt <= d.cfg.MaxRetries; attempt++ {
		if err := sess.Navigate(d.mapsURL, d.cfg.NavTimeout); err != nil {
			d.logger.Warn("[discovery] attempt %d/%d: navigation failed: %v",
				attempt, d.cfg.MaxRetries, err)
			sess.Sleep(d.cfg.SearchBackoff)
			continue
		}
		sess.Sleep(2 * time.Second)

		if err := sess.WaitVisible(searchBoxSelector, d.cfg.SearchBoxTimeout); err != nil {
			d.logger.Warn("[discovery] attempt %d/%d: search box not found, retrying",
				attempt, d.cfg.MaxRetries)
			sess.Sleep(d.cfg.SearchBackoff)
			continue
		}

		if err := sess.Fill(searchBoxSelector, query); err != nil {
			d.logger.Warn("[discovery] attempt %d/%d: could not fill search box: %v",
				attempt, d.cfg.MaxRetries, err)
			sess.Sleep(d.cfg.SearchBackoff)
			continue
		}
		if err := sess.PressEnter(searchBoxSelector); err != nil {
			d.logger.Warn("[discovery] attempt %d/%d: could not submit query: %v",
				attempt, d.cfg.MaxRetries, err)
			sess.Sleep(d.cfg.SearchBackoff)
			continue
		}

		sess.Sleep(d.cfg.SearchSettle)
		d.logger.Info("[discovery] submitted query %q", query)
		return true
	}
	return false
}

// scrollFeed drives the result feed to its bottom until the end-of-feed
// marker appears or the scroll cap is hit. Hitting the cap is a warning,
// not an error; whatever has rendered so far is still extracted.
func (d *Discovery) scrollFeed(sess Session, query string) {
	if err := sess.WaitVisible(feedSelector, d.cfg.FeedTimeout); err != nil {
		d.logger.Warn("[discovery] %q: result feed not found: %v", query, err)
		return
	}

	for i := 0; i < d.cfg.MaxScrolls; i++ {
		if err := sess.ScrollToBottom(feedSelector); err != nil {
			d.logger.Warn("[discovery] %q: scroll failed: %v", query, err)
			return
		}
		sess.Sleep(d.cfg.ScrollPause)

		if n, err := sess.CountMatching(cardSelector); err == nil {
			d.logger.Debug("[discovery] %q: %d cards rendered", query, n)
		}

		if err := sess.WaitVisible(endMarkerSelector, d.cfg.EndMarkerTimeout); err == nil {
			d.logger.Info("[discovery] %q: end of feed reached", query)
			return
		}
	}

	d.logger.Warn("[discovery] %q: reached max scrolls (%d) — extracting partial feed",
		query, d.cfg.MaxScrolls)
}

// extractListings parses the fully scrolled markup once. Every field is
// pulled independently; a missing sub-element nulls that field only and a
// broken card never aborts its siblings.
func (d *Discovery) extractListings(markup string, unit models.QueryUnit) []*models.Listing {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		d.logger.Error("[discovery] %q: markup parse failed: %v", unit.Query, err)
		return nil
	}

	var listings []*models.Listing
	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		l := &models.Listing{
			SearchedQuery:    unit.Query,
			SearchedChannel:  unit.Channel,
			SearchedDistrict: unit.District,
			SearchedState:    unit.State,
			ScrapedAt:        time.Now(),
		}

		if name := strings.TrimSpace(card.Find(nameSelector).First().Text()); name != "" {
			l.Name = &name
		}

		if href, ok := card.Find(linkSelector).First().Attr("href"); ok && href != "" {
			l.DetailURL = &href
			l.Latitude, l.Longitude = extractCoords(href)
			if l.Latitude == nil {
				d.logger.Debug("[discovery] no coordinates in detail URL: %s", href)
			}
		}

		if text := strings.TrimSpace(card.Find(ratingSelector).First().Text()); text != "" {
			if rating, err := strconv.ParseFloat(text, 64); err == nil {
				l.Rating = &rating
			}
		}

		l.Category = extractCategory(card)

		listings = append(listings, l)
		d.logger.Debug("[discovery] [%d] scraped: %s", i+1, deref(l.Name))
	})

	return listings
}

// extractCategory digs through the nested info rows for the first span that
// is not a separator.
func extractCategory(card *goquery.Selection) *string {
	rows := card.Find(infoSelector).Find(infoRowClass)
	if rows.Length() < 2 {
		return nil
	}

	inner := rows.Eq(1).Find(infoRowClass)
	if inner.Length() == 0 {
		return nil
	}

	var category *string
	inner.Eq(0).Find("span").EachWithBreak(func(_ int, span *goquery.Selection) bool {
		text := strings.TrimSpace(span.Text())
		if text != "" && !strings.Contains(text, "·") {
			category = &text
			return false
		}
		return true
	})
	return category
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
