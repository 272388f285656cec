package services

import (
	"fmt"
	"sort"
	"strings"

	"maps-scraper/models"
	"maps-scraper/utils"
)

type CoverageService struct {
	logger *utils.Logger
}

func NewCoverageService(logger *utils.Logger) *CoverageService {
	return &CoverageService{logger: logger}
}

// Generate computes completeness stats over the final dataset: how many
// rows carry coordinates, contact fields and resolved hierarchy levels.
func (s *CoverageService) Generate(places []*models.Place) *models.CoverageReport {
	report := &models.CoverageReport{
		PlacesByState:   make(map[string]int),
		PlacesByChannel: make(map[string]int),
	}

	if len(places) == 0 {
		return report
	}

	report.TotalPlaces = len(places)

	for _, p := range places {
		if p.Latitude != nil && p.Longitude != nil {
			report.WithCoordinates++
		}
		if p.FullAddress != nil && *p.FullAddress != models.NotFound {
			report.WithAddress++
		}
		if p.Phone != nil && *p.Phone != models.NotFound {
			report.WithPhone++
		}
		if p.Postcode != nil {
			report.ResolvedPostcode++
		}
		if p.State != nil {
			report.ResolvedState++
			report.PlacesByState[*p.State]++
		}
		if p.District != nil {
			report.ResolvedDistrict++
		}
		if p.Area != nil {
			report.ResolvedArea++
		}
		if p.SearchedChannel != "" {
			report.PlacesByChannel[p.SearchedChannel]++
		}
	}

	return report
}

func (s *CoverageService) Print(r *models.CoverageReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  📍 GEOCODING COVERAGE\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total places       : \033[1m%d\033[0m\n", r.TotalPlaces)
	fmt.Printf("  With coordinates   : \033[1m%d\033[0m\n", r.WithCoordinates)
	fmt.Printf("  With address       : \033[1m%d\033[0m\n", r.WithAddress)
	fmt.Printf("  With phone number  : \033[1m%d\033[0m\n", r.WithPhone)
	fmt.Println()

	fmt.Printf("\033[1;33m  Address Resolution\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Postcode resolved  : %s\n", ratio(r.ResolvedPostcode, r.TotalPlaces))
	fmt.Printf("  State resolved     : %s\n", ratio(r.ResolvedState, r.TotalPlaces))
	fmt.Printf("  District resolved  : %s\n", ratio(r.ResolvedDistrict, r.TotalPlaces))
	fmt.Printf("  Area resolved      : %s\n", ratio(r.ResolvedArea, r.TotalPlaces))
	fmt.Println()

	printCountMap("Places by Resolved State", r.PlacesByState, thin)
	printCountMap("Places by Channel", r.PlacesByChannel, thin)

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func printCountMap(title string, counts map[string]int, thin string) {
	fmt.Printf("\033[1;33m  %s\033[0m\n", title)
	fmt.Printf("  %s\n", thin)
	if len(counts) == 0 {
		fmt.Printf("  No data\n")
		fmt.Println()
		return
	}

	type keyCount struct {
		key   string
		count int
	}
	var sorted []keyCount
	for k, c := range counts {
		sorted = append(sorted, keyCount{k, c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].key < sorted[j].key
	})

	for _, kc := range sorted {
		fmt.Printf("  %-30s \033[1m%d\033[0m\n", truncate(kc.key, 28), kc.count)
	}
	fmt.Println()
}

func ratio(part, total int) string {
	if total == 0 {
		return "0 (0.0%)"
	}
	return fmt.Sprintf("\033[1m%d\033[0m (%.1f%%)", part, 100*float64(part)/float64(total))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
