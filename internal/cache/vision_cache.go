package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/david/donor-concierge/internal/vision"
)

const defaultTTL = 24 * time.Hour

// VisionCache keeps the latest Impact Vision per donor in Redis so a chat
// turn does not need a database read for the previous vision.
type VisionCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewVisionCache(client *redis.Client, ttl time.Duration) *VisionCache {
	if client == nil {
		panic("cache: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &VisionCache{redis: client, ttl: ttl}
}

// Get returns the cached vision, or (nil, nil) on a miss.
func (c *VisionCache) Get(ctx context.Context, donorID uuid.UUID) (*vision.ImpactVision, error) {
	data, err := c.redis.Get(ctx, visionKey(donorID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("cache: failed to load vision: %w", err)
	}

	var v vision.ImpactVision
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("cache: failed to decode vision: %w", err)
	}
	return &v, nil
}

func (c *VisionCache) Set(ctx context.Context, donorID uuid.UUID, v vision.ImpactVision) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache: failed to marshal vision: %w", err)
	}
	if err := c.redis.Set(ctx, visionKey(donorID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache: failed to persist vision: %w", err)
	}
	return nil
}

func (c *VisionCache) Delete(ctx context.Context, donorID uuid.UUID) error {
	if err := c.redis.Del(ctx, visionKey(donorID)).Err(); err != nil {
		return fmt.Errorf("cache: failed to delete vision: %w", err)
	}
	return nil
}

func visionKey(donorID uuid.UUID) string {
	return fmt.Sprintf("vision:%s", donorID)
}
