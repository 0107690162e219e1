package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"

	"github.com/david/donor-concierge/internal/match"
	"github.com/david/donor-concierge/internal/models"
)

const maxSummaryLen = 600

var summaryPolicy = bluemonday.UGCPolicy()

// TruncateText cuts a string to maxLen runes, appending ellipsis if truncated.
func TruncateText(text string, maxLen int) string {
	r := []rune(text)
	if len(r) <= maxLen {
		return text
	}
	if maxLen > 3 {
		return string(r[:maxLen-3]) + "..."
	}
	return string(r[:maxLen])
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return cleanText(html) // Fallback to original if parsing fails
	}
	return cleanText(doc.Text())
}

// SanitizeSummary strips scripts, handlers and other unsafe markup from a
// catalog summary, keeping ordinary formatting.
func SanitizeSummary(html string) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}
	return strings.TrimSpace(summaryPolicy.Sanitize(html))
}

// Rejection explains why a catalog entry was not turned into an opportunity.
type Rejection struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}

func (r Rejection) String() string {
	if r.Key == "" {
		return fmt.Sprintf("entry %d: %s", r.Index, r.Reason)
	}
	return fmt.Sprintf("entry %d (%s): %s", r.Index, r.Key, r.Reason)
}

// NormalizeCatalog converts catalog entries into opportunities ready for
// storage. Keys are compared case-insensitively; the first entry wins.
func NormalizeCatalog(cat *Catalog) ([]models.Opportunity, []Rejection) {
	if cat == nil {
		return nil, nil
	}

	seen := make(map[string]bool, len(cat.Opportunities))
	var (
		out      []models.Opportunity
		rejected []Rejection
	)
	for i, entry := range cat.Opportunities {
		opp, err := NormalizeEntry(entry)
		if err != nil {
			rejected = append(rejected, Rejection{Index: i, Key: entry.Key, Reason: err.Error()})
			continue
		}
		fold := strings.ToLower(opp.Key)
		if seen[fold] {
			rejected = append(rejected, Rejection{Index: i, Key: opp.Key, Reason: "duplicate key"})
			continue
		}
		seen[fold] = true
		out = append(out, opp)
	}
	return out, rejected
}

// NormalizeEntry validates one catalog entry and fills the derived fields:
// plain-text summary, parsed amount and info tier.
func NormalizeEntry(entry CatalogEntry) (models.Opportunity, error) {
	key := cleanText(entry.Key)
	title := cleanText(entry.Title)
	if key == "" {
		return models.Opportunity{}, errors.New("missing key")
	}
	if title == "" {
		return models.Opportunity{}, errors.New("missing title")
	}

	summaryHTML := SanitizeSummary(sanitizeUTF8(entry.SummaryHTML))
	opp := models.Opportunity{
		Key:          key,
		Title:        title,
		SummaryHTML:  summaryHTML,
		Summary:      TruncateText(HTMLToText(summaryHTML), maxSummaryLen),
		Category:     normalizeCategory(entry.Category),
		Location:     cleanText(entry.Location),
		Organization: cleanText(entry.Organization),
		AmountText:   cleanText(entry.AmountText),
	}

	switch {
	case entry.Amount != nil && *entry.Amount > 0:
		amt := *entry.Amount
		opp.Amount = &amt
	case entry.Amount != nil && *entry.Amount < 0:
		return models.Opportunity{}, errors.New("negative amount")
	case opp.AmountText != "":
		opp.Amount = ParseAmount(opp.AmountText)
	}
	opp.InfoTier = string(match.DetermineInfoTier(opp.Amount))

	return opp, nil
}
