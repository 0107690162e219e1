package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v float64) *float64 { return &v }

func TestDetermineInfoTier(t *testing.T) {
	tests := []struct {
		name   string
		amount *float64
		want   InfoTier
	}{
		{"unknown", nil, TierNone},
		{"zero", amount(0), TierNone},
		{"just under basic", amount(24999), TierNone},
		{"basic floor", amount(25000), TierBasic},
		{"basic ceiling", amount(250000), TierBasic},
		{"just over basic", amount(250001), TierDetailed},
		{"large", amount(5_000_000), TierDetailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineInfoTier(tt.amount))
		})
	}
}

func TestParseBudgetToAnnual(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"$3M", 3_000_000},
		{"$250k / year", 250_000},
		{"$100k per year", 100_000},
		{"$20k / month", 240_000},
		{"$2M over 24 months", 1_000_000},
		{"$3M over 3 years", 1_000_000},
		{"$2.5M", 2_500_000},
		{"$250,000", 250_000},
		{"$2 million over 2 years", 1_000_000},
		{"$500 thousand", 500_000},
		{"$1M over 0 years", 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := ParseBudgetToAnnual(tt.text)
			require.NotNil(t, got)
			assert.InDelta(t, tt.want, *got, 0.01)
		})
	}
}

func TestParseBudgetToAnnual_NoAmount(t *testing.T) {
	assert.Nil(t, ParseBudgetToAnnual(""))
	assert.Nil(t, ParseBudgetToAnnual("a few million over 3 years"))
}
