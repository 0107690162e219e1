package match

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	budgetAmountRe = regexp.MustCompile(`(?i)\$\s?(\d+(?:[.,]\d+)*)(?:\s*(mm|million|m|k|thousand)\b)?`)
	budgetOverRe   = regexp.MustCompile(`(?i)over\s+(\d+)\s+(months?|years?)\b`)
	budgetPerRe    = regexp.MustCompile(`(?i)(?:/\s*|per\s+)(year|yr|month|mo)\b`)
)

// ParseBudgetToAnnual turns budget text such as "$2M over 24 months" or
// "$100k / year" into an annual ceiling. It returns nil when the text holds
// no dollar amount.
func ParseBudgetToAnnual(text string) *float64 {
	m := budgetAmountRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	switch strings.ToLower(m[2]) {
	case "m", "mm", "million":
		amount *= 1_000_000
	case "k", "thousand":
		amount *= 1_000
	}

	if over := budgetOverRe.FindStringSubmatch(text); over != nil {
		n, err := strconv.Atoi(over[1])
		if err == nil && n > 0 {
			if strings.HasPrefix(strings.ToLower(over[2]), "month") {
				amount = amount / float64(n) * 12
			} else {
				amount = amount / float64(n)
			}
		}
	} else if per := budgetPerRe.FindStringSubmatch(text); per != nil {
		switch strings.ToLower(per[1]) {
		case "month", "mo":
			amount *= 12
		}
	}

	return &amount
}
