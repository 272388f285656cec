package services

import (
	"regexp"
	"strings"
)

var (
	commaRuns      = regexp.MustCompile(`,+`)
	whitespaceRuns = regexp.MustCompile(`\s+`)
)

// NormalizeAddress produces the canonical comparison form of a raw address:
// lowercase, comma runs collapsed to one comma, whitespace runs collapsed
// to one space, trimmed. Missing values pass through untouched. This is the
// only form ever handed to fuzzy matching.
func NormalizeAddress(address *string) *string {
	if address == nil {
		return nil
	}

	s := strings.ToLower(*address)
	s = commaRuns.ReplaceAllString(s, ",")
	s = whitespaceRuns.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return &s
}
