package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/david/donor-concierge/internal/models"
)

// Upserter stores one opportunity and reports whether it was newly inserted.
// *db.Store satisfies it.
type Upserter interface {
	UpsertOpportunity(ctx context.Context, o *models.Opportunity) (bool, error)
}

type SeedStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
}

// Seed upserts every opportunity. A failed row is logged and counted; Seed
// only returns an error when the context is cancelled or nothing could be
// saved.
func Seed(ctx context.Context, store Upserter, opps []models.Opportunity, logger *zap.Logger) (SeedStats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		stats   SeedStats
		lastErr error
	)
	for i := range opps {
		if err := ctx.Err(); err != nil {
			return stats, fmt.Errorf("ingest: seed cancelled: %w", err)
		}
		opp := opps[i]
		inserted, err := store.UpsertOpportunity(ctx, &opp)
		if err != nil {
			stats.Failed++
			lastErr = err
			logger.Warn("failed to save opportunity", zap.String("key", opp.Key), zap.Error(err))
			continue
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Updated++
		}
	}

	logger.Info("catalog seeded",
		zap.Int("inserted", stats.Inserted),
		zap.Int("updated", stats.Updated),
		zap.Int("failed", stats.Failed),
	)
	if len(opps) > 0 && stats.Failed == len(opps) {
		return stats, fmt.Errorf("ingest: no opportunities saved: %w", lastErr)
	}
	return stats, nil
}

// SeedCatalog loads, normalizes and stores the catalog at path (empty for the
// embedded catalog). Rejected entries are logged and returned.
func SeedCatalog(ctx context.Context, store Upserter, path string, logger *zap.Logger) (SeedStats, []Rejection, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cat, err := LoadCatalog(path)
	if err != nil {
		return SeedStats{}, nil, err
	}
	opps, rejected := NormalizeCatalog(cat)
	for _, r := range rejected {
		logger.Warn("catalog entry rejected", zap.Int("index", r.Index), zap.String("key", r.Key), zap.String("reason", r.Reason))
	}
	stats, err := Seed(ctx, store, opps, logger)
	return stats, rejected, err
}
