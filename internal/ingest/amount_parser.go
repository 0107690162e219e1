package ingest

import (
	"regexp"
	"strconv"
	"strings"
)

var amountRegex = regexp.MustCompile(`(?i)(\$)?\s?(\d[\d,]*(?:\.\d+)?)\s*(mm|million|m|k|thousand)?\b`)

// ParseAmount extracts the requested amount from free text such as
// "$250,000", "$1.2M" or "up to $40k". Ranges resolve to their upper bound.
// It returns nil when no positive amount is found.
func ParseAmount(text string) *float64 {
	min, max := parseAmountRange(text)
	switch {
	case max > 0:
		return &max
	case min > 0:
		return &min
	default:
		return nil
	}
}

// parseAmountRange extracts min/max amounts from text.
func parseAmountRange(text string) (float64, float64) {
	textLower := strings.ToLower(text)

	// Figures with a dollar sign win; bare numbers ("12,000 students",
	// "3 years") only count when the text has no dollar figure at all.
	var dollars, bare []float64
	for _, m := range amountRegex.FindAllStringSubmatch(text, -1) {
		clean := strings.ReplaceAll(m[2], ",", "")
		val, err := strconv.ParseFloat(clean, 64)
		if err != nil || val <= 0 {
			continue
		}
		switch strings.ToLower(m[3]) {
		case "m", "mm", "million":
			val *= 1_000_000
		case "k", "thousand":
			val *= 1_000
		}
		if m[1] != "" {
			dollars = append(dollars, val)
		} else {
			bare = append(bare, val)
		}
	}
	amounts := dollars
	if len(amounts) == 0 {
		amounts = bare
	}

	if len(amounts) == 0 {
		return 0, 0
	}

	if len(amounts) == 1 {
		// Single amount - check if it's a floor
		if strings.Contains(textLower, "minimum") || strings.Contains(textLower, "at least") {
			return amounts[0], 0
		}
		// Default: treat as maximum ("up to", "about", bare figures)
		return 0, amounts[0]
	}

	// Multiple amounts - assume range
	min := amounts[0]
	max := amounts[0]
	for _, a := range amounts {
		if a < min {
			min = a
		}
		if a > max {
			max = a
		}
	}
	if min == max {
		return 0, max
	}
	return min, max
}
