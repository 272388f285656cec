package gmaps

import (
	"regexp"
	"strings"

	"maps-scraper/config"
	"maps-scraper/models"
	"maps-scraper/utils"
)

const (
	addressSelector = `button[data-item-id="address"]`
	phoneSelector   = `button[data-tooltip="Copy phone number"]`

	addressPrefix = "Address:"
	phonePrefix   = "Phone:"
)

var nonPhoneChars = regexp.MustCompile(`[^+\d]`)

// Enricher visits one detail page and pulls the full address and phone
// number out of labeled controls. Address and phone extraction are
// independent; the attempt loop stops as soon as either is found.
type Enricher struct {
	cfg        *config.Config
	logger     *utils.Logger
	newSession SessionFactory
}

// NewEnricher creates an Enricher bound to a session factory.
func NewEnricher(cfg *config.Config, logger *utils.Logger, factory SessionFactory) *Enricher {
	return &Enricher{cfg: cfg, logger: logger, newSession: factory}
}

// Run enriches one detail URL. Fields that were looked for but never found
// keep the "-" sentinel; a session that could not be opened at all yields
// nil fields instead.
func (e *Enricher) Run(detailURL string) *models.Detail {
	sess, err := e.newSession()
	if err != nil {
		e.logger.Error("[detail] %s: could not open session: %v", detailURL, err)
		return &models.Detail{DetailURL: detailURL}
	}
	defer sess.Close()

	address, phone := models.NotFound, models.NotFound

	for attempt := 1; attempt <= e.cfg.MaxRetries; attempt++ {
		if err := sess.Navigate(detailURL, e.cfg.NavTimeout); err != nil {
			e.logger.Warn("[detail] attempt %d/%d: navigation to %s failed: %v",
				attempt, e.cfg.MaxRetries, detailURL, err)
			continue
		}
		sess.Sleep(e.cfg.DetailSettle)

		if found, ok := e.extractAddress(sess, attempt); ok {
			address = found
		}
		if found, ok := e.extractPhone(sess, attempt); ok {
			phone = found
		}

		if address != models.NotFound || phone != models.NotFound {
			break
		}
	}

	return &models.Detail{DetailURL: detailURL, FullAddress: &address, Phone: &phone}
}

// extractAddress reads the address button's accessible label.
func (e *Enricher) extractAddress(sess Session, attempt int) (string, bool) {
	label, found, err := sess.Attribute(addressSelector, "aria-label")
	if err != nil {
		e.logger.Warn("[detail] attempt %d: address extraction error: %v", attempt, err)
		return "", false
	}
	if !found {
		e.logger.Warn("[detail] attempt %d: address button not found", attempt)
		return "", false
	}
	if !strings.Contains(label, addressPrefix) {
		return "", false
	}

	address := strings.TrimSpace(strings.Replace(label, addressPrefix, "", 1))
	e.logger.Info("[detail] address found: %s", address)
	return address, true
}

// extractPhone scans the copy-phone buttons and takes the first label with
// the phone prefix, keeping only digits and "+".
func (e *Enricher) extractPhone(sess Session, attempt int) (string, bool) {
	labels, err := sess.AttributeAll(phoneSelector, "aria-label")
	if err != nil {
		e.logger.Warn("[detail] attempt %d: phone extraction error: %v", attempt, err)
		return "", false
	}

	for _, label := range labels {
		if !strings.Contains(label, phonePrefix) {
			continue
		}
		raw := strings.TrimSpace(strings.Replace(label, phonePrefix, "", 1))
		phone := nonPhoneChars.ReplaceAllString(raw, "")
		if phone == "" {
			continue
		}
		e.logger.Info("[detail] phone number found: %s", phone)
		return phone, true
	}

	e.logger.Warn("[detail] attempt %d: phone number not found", attempt)
	return "", false
}
