package services

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"maps-scraper/models"
	"maps-scraper/utils"
)

// DefaultThreshold is the minimum partial-similarity score (0-100) a
// candidate needs to count as a match.
const DefaultThreshold = 85

var postcodeRuns = regexp.MustCompile(`\d{5}`)

// LoadGazetteer reads the state/district/postcode/area reference document.
func LoadGazetteer(path string) (models.Gazetteer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gazetteer: read %q: %w", path, err)
	}

	var g models.Gazetteer
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("gazetteer: parse %q: %w", path, err)
	}
	return g, nil
}

// bestMatch returns the candidate with the highest partial-similarity score
// against text, provided the score clears the threshold. Ties keep the
// first-encountered candidate, so results are stable under candidate order.
func bestMatch(text string, candidates []string, threshold int) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	best, bestScore := "", -1
	for _, c := range candidates {
		if score := fuzzy.PartialRatio(text, c); score > bestScore {
			best, bestScore = c, score
		}
	}

	if bestScore >= threshold {
		return best, true
	}
	return "", false
}

// Resolver maps a free-text address onto the gazetteer hierarchy. The
// gazetteer is read-only, so one Resolver is safely shared across
// concurrent calls.
type Resolver struct {
	gazetteer models.Gazetteer
	threshold int
	logger    *utils.Logger
}

// NewResolver creates a Resolver. A non-positive threshold falls back to
// DefaultThreshold.
func NewResolver(g models.Gazetteer, threshold int, logger *utils.Logger) *Resolver {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Resolver{gazetteer: g, threshold: threshold, logger: logger}
}

type resolveStrategy func(addr, postcode string) *models.ResolvedAddress

// Resolve runs the resolution cascade over the normalized address. The
// strategies are tried in fixed precedence order; the first to produce a
// result wins. Unresolvable levels stay nil, never an error.
func (r *Resolver) Resolve(raw *string) models.ResolvedAddress {
	normalized := NormalizeAddress(raw)
	if normalized == nil {
		return models.ResolvedAddress{}
	}

	addr := *normalized
	postcode := detectPostcode(addr)

	strategies := []resolveStrategy{
		r.tiomanException,
		r.byPostcode,
		r.byState,
		r.byDistrict,
	}
	for _, strategy := range strategies {
		if res := strategy(addr, postcode); res != nil {
			return *res
		}
	}

	return models.ResolvedAddress{Postcode: optional(postcode)}
}

// Annotate resolves every place's full address in-place.
func (r *Resolver) Annotate(places []*models.Place) {
	resolved := 0
	for _, p := range places {
		res := r.Resolve(p.FullAddress)
		p.Postcode = res.Postcode
		p.State = res.State
		p.District = res.District
		p.Area = res.Area
		if res.State != nil {
			resolved++
		}
	}
	r.logger.Info("[resolver] resolved a state for %d/%d places", resolved, len(places))
}

// detectPostcode takes the LAST run of 5 consecutive digits: trailing digit
// runs are usually the postal code, earlier ones street or unit numbers.
func detectPostcode(addr string) string {
	runs := postcodeRuns.FindAllString(addr, -1)
	if len(runs) == 0 {
		return ""
	}
	return runs[len(runs)-1]
}

// tiomanException covers a gazetteer gap: Tioman Island sits off the Johor
// coast and is reached via Mersing, but belongs to Rompin district, Pahang.
func (r *Resolver) tiomanException(addr, _ string) *models.ResolvedAddress {
	isTioman := strings.Contains(addr, "pulau tioman") || strings.Contains(addr, "tioman island") ||
		(strings.Contains(addr, "pahang") && strings.Contains(addr, "mersing"))
	if !isTioman {
		return nil
	}
	return &models.ResolvedAddress{
		Postcode: strPtr("86800"),
		State:    strPtr("pahang"),
		District: strPtr("rompin"),
		Area:     strPtr("pulau tioman"),
	}
}

// byPostcode scans the whole gazetteer for the detected postcode; the first
// (state, district) entry holding the key wins and the scan stops there.
func (r *Resolver) byPostcode(addr, postcode string) *models.ResolvedAddress {
	if postcode == "" {
		return nil
	}

	for _, state := range sortedKeys(r.gazetteer) {
		districts := r.gazetteer[state]
		for _, district := range sortedKeys(districts) {
			entry, ok := districts[district][postcode]
			if !ok {
				continue
			}

			res := &models.ResolvedAddress{
				Postcode: strPtr(postcode),
				State:    strPtr(state),
				District: strPtr(district),
			}
			if area, ok := bestMatch(addr, entry.Locations.Area, r.threshold); ok {
				res.Area = strPtr(area)
			}
			return res
		}
	}
	return nil
}

// byState matches a state name first, then drills into districts and
// postcode entries.
func (r *Resolver) byState(addr, postcode string) *models.ResolvedAddress {
	state, ok := bestMatch(addr, sortedKeys(r.gazetteer), r.threshold)
	if !ok {
		return nil
	}

	district, ok := bestMatch(addr, sortedKeys(r.gazetteer[state]), r.threshold)
	if !ok {
		return &models.ResolvedAddress{Postcode: optional(postcode), State: strPtr(state)}
	}

	return r.scanDistrict(addr, postcode, state, district)
}

// byDistrict is the fallback when no state name matched: match against every
// district name and recover the owning state through a reverse mapping. A
// district name shared by two states resolves to the first owner in sorted
// state order, deterministically.
func (r *Resolver) byDistrict(addr, postcode string) *models.ResolvedAddress {
	owners := make(map[string]string)
	var names []string
	for _, state := range sortedKeys(r.gazetteer) {
		for _, district := range sortedKeys(r.gazetteer[state]) {
			if _, taken := owners[district]; taken {
				continue
			}
			owners[district] = state
			names = append(names, district)
		}
	}

	district, ok := bestMatch(addr, names, r.threshold)
	if !ok {
		return nil
	}
	return r.scanDistrict(addr, postcode, owners[district], district)
}

// scanDistrict iterates a district's postcode entries and returns the first
// whose key equals the detected postcode or whose area list fuzzy-matches.
// With no satisfying entry, the state/district resolution is still kept.
func (r *Resolver) scanDistrict(addr, postcode, state, district string) *models.ResolvedAddress {
	entries := r.gazetteer[state][district]
	for _, code := range sortedKeys(entries) {
		area, areaOK := bestMatch(addr, entries[code].Locations.Area, r.threshold)
		if (postcode != "" && postcode == code) || areaOK {
			resolved := postcode
			if resolved == "" {
				resolved = code
			}
			res := &models.ResolvedAddress{
				Postcode: strPtr(resolved),
				State:    strPtr(state),
				District: strPtr(district),
			}
			if areaOK {
				res.Area = strPtr(area)
			}
			return res
		}
	}

	return &models.ResolvedAddress{
		Postcode: optional(postcode),
		State:    strPtr(state),
		District: strPtr(district),
	}
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func strPtr(s string) *string {
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
