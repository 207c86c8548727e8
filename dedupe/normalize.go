package dedupe

import (
	"regexp"
	"strings"
)

var (
	// Letters outside ASCII that survive normalisation (Hebrew alef..tav).
	nonTokenRun = regexp.MustCompile(`[^0-9a-z\x{05D0}-\x{05EA}]+`)
	spaceRun    = regexp.MustCompile(`\s+`)
)

// CleanGTIN extracts the ASCII digits of a raw GTIN cell. An empty result means
// the row has no usable GTIN.
func CleanGTIN(raw string) string {
	s := strings.TrimSpace(raw)
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		// zero-width characters, BOM and any other non-digit are dropped
		return -1
	}, s)
}

// NormalizeText lower-cases s and collapses every run of characters that are
// not ASCII digits, ASCII lowercase letters or Hebrew letters into one space.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonTokenRun.ReplaceAllString(s, " ")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
