package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/david/donor-concierge/internal/match"
)

type Opportunity struct {
	ID           uuid.UUID `json:"id"`
	Key          string    `json:"key"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary"`
	SummaryHTML  string    `json:"summary_html,omitempty"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	Organization string    `json:"organization"`
	Amount       *float64  `json:"amount"`
	AmountText   string    `json:"amount_text,omitempty"` // Original text the amount was parsed from
	InfoTier     string    `json:"info_tier"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Snapshot is the read-only shape the matcher works from.
func (o Opportunity) Snapshot() match.Opportunity {
	return match.Opportunity{
		Key:      o.Key,
		Category: o.Category,
		Location: o.Location,
		Title:    o.Title,
		Summary:  o.Summary,
		Amount:   o.Amount,
	}
}

func Snapshots(opps []Opportunity) []match.Opportunity {
	out := make([]match.Opportunity, 0, len(opps))
	for _, o := range opps {
		out = append(out, o.Snapshot())
	}
	return out
}
