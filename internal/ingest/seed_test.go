package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/david/donor-concierge/internal/concierge/conciergetest"
	"github.com/david/donor-concierge/internal/models"
)

type flakyUpserter struct {
	failKey string
	calls   int
}

func (f *flakyUpserter) UpsertOpportunity(_ context.Context, o *models.Opportunity) (bool, error) {
	f.calls++
	if o.Key == f.failKey {
		return false, errors.New("constraint violation")
	}
	return true, nil
}

func TestSeed_InsertsThenUpdates(t *testing.T) {
	store := conciergetest.NewMemStore()
	ctx := context.Background()
	opps := []models.Opportunity{
		{Key: "wells", Title: "Wells", Category: "water"},
		{Key: "clinic", Title: "Clinic", Category: "health"},
	}

	stats, err := Seed(ctx, store, opps, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Inserted: 2}, stats)

	stats, err = Seed(ctx, store, opps, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Updated: 2}, stats)

	all, err := store.AllOpportunities(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSeed_CountsFailures(t *testing.T) {
	up := &flakyUpserter{failKey: "bad"}
	stats, err := Seed(context.Background(), up, []models.Opportunity{
		{Key: "good", Title: "Good"},
		{Key: "bad", Title: "Bad"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, SeedStats{Inserted: 1, Failed: 1}, stats)
}

func TestSeed_AllFailed(t *testing.T) {
	store := conciergetest.NewMemStore()
	store.Err = errors.New("db down")

	_, err := Seed(context.Background(), store, []models.Opportunity{{Key: "a", Title: "A"}}, nil)
	assert.ErrorContains(t, err, "no opportunities saved")
	assert.ErrorIs(t, err, store.Err)
}

func TestSeed_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	up := &flakyUpserter{}

	_, err := Seed(ctx, up, []models.Opportunity{{Key: "a", Title: "A"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, up.calls)
}

func TestSeedCatalog_Embedded(t *testing.T) {
	store := conciergetest.NewMemStore()
	stats, rejected, err := SeedCatalog(context.Background(), store, "", nil)
	require.NoError(t, err)
	assert.Empty(t, rejected)
	assert.Positive(t, stats.Inserted)
	assert.Zero(t, stats.Failed)

	o, err := store.GetOpportunityByKey(context.Background(), "ke-village-wells")
	require.NoError(t, err)
	require.NotNil(t, o.Amount)
	assert.InDelta(t, 90000, *o.Amount, 0.001)
	assert.Equal(t, "basic", o.InfoTier)
}
