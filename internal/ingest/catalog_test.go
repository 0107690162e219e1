package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalog_Embedded(t *testing.T) {
	cat, err := LoadCatalog("")
	require.NoError(t, err)
	require.NotEmpty(t, cat.Opportunities)

	opps, rejected := NormalizeCatalog(cat)
	assert.Empty(t, rejected)
	assert.Len(t, opps, len(cat.Opportunities))
	for _, o := range opps {
		assert.NotEmpty(t, o.Key)
		assert.NotEmpty(t, o.Category, o.Key)
		assert.NotEmpty(t, o.InfoTier, o.Key)
	}
}

func TestLoadCatalog_FileWithEnvExpansion(t *testing.T) {
	t.Setenv("CATALOG_CITY", "Monsey")
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `opportunities:
  - key: gemach
    title: Gemach in ${CATALOG_CITY}
    category: chesed
    location: ${CATALOG_CITY}
    amount_text: "$30k"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cat, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, cat.Opportunities, 1)
	e := cat.Opportunities[0]
	assert.Equal(t, "Gemach in Monsey", e.Title)
	assert.Equal(t, "Monsey", e.Location)
	assert.Equal(t, "$30k", e.AmountText)
	assert.Nil(t, e.Amount)
}

func TestParseCatalog_KeepsDollarAmounts(t *testing.T) {
	t.Setenv("CATALOG_CITY", "Lakewood")
	content := `opportunities:
  - key: dorm
    title: Dorm in ${CATALOG_CITY}
    amount_text: "$1.2M"
  - key: wells
    title: Wells
    amount_text: "$40k - $90k"
  - key: trees
    title: Trees
    amount_text: "$3M over 3 years"
  - key: gemach
    title: Gemach
    amount_text: "$30k for $UNSET"
`
	cat, err := ParseCatalog([]byte(content))
	require.NoError(t, err)

	opps, rejected := NormalizeCatalog(cat)
	require.Empty(t, rejected)
	require.Len(t, opps, 4)

	assert.Equal(t, "Dorm in Lakewood", opps[0].Title)
	want := map[string]struct {
		text   string
		amount float64
	}{
		"dorm":   {"$1.2M", 1200000},
		"wells":  {"$40k - $90k", 90000},
		"trees":  {"$3M over 3 years", 3000000},
		"gemach": {"$30k for $UNSET", 30000},
	}
	for _, o := range opps {
		w := want[o.Key]
		assert.Equal(t, w.text, o.AmountText, o.Key)
		require.NotNil(t, o.Amount, o.Key)
		assert.InDelta(t, w.amount, *o.Amount, 0.001, o.Key)
	}
}

func TestLoadCatalog_EmbeddedAmountsParse(t *testing.T) {
	cat, err := LoadCatalog("")
	require.NoError(t, err)
	opps, _ := NormalizeCatalog(cat)

	byKey := map[string]float64{}
	for _, o := range opps {
		if o.Amount != nil {
			byKey[o.Key] = *o.Amount
		}
	}
	assert.InDelta(t, 1200000, byKey["lkwd-dorm-expansion"], 0.001)
	assert.InDelta(t, 250000, byKey["jlm-bikur-cholim"], 0.001)
	assert.InDelta(t, 90000, byKey["ke-village-wells"], 0.001)
	assert.InDelta(t, 3000000, byKey["gt-reforestation"], 0.001)
	assert.InDelta(t, 75000, byKey["wb-scholarships"], 0.001)
}

func TestLoadCatalog_Errors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read catalog")

	_, err = ParseCatalog([]byte("opportunities: [unclosed"))
	assert.ErrorContains(t, err, "parse catalog")
}
