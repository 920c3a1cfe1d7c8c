package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DevHubFusionX/logi-backend/internal/core/domain"
)

const (
	summaryKey = "analytics:summary"
	summaryTTL = 60 * time.Second
)

// SummaryCache holds the serialized analytics summary for a short TTL so
// repeated dashboard loads do not re-run the aggregate queries.
type SummaryCache struct {
	client *redis.Client
}

// NewSummaryCache creates a SummaryCache wrapping the given Redis client.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client}
}

// Get returns the cached summary, or nil on a miss.
func (c *SummaryCache) Get(ctx context.Context) (*domain.AnalyticsSummary, error) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("summary cache get: %w", err)
	}

	var summary domain.AnalyticsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("summary cache decode: %w", err)
	}
	return &summary, nil
}

// Set stores the summary with the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, s *domain.AnalyticsSummary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("summary cache encode: %w", err)
	}
	return c.client.Set(ctx, summaryKey, raw, summaryTTL).Err()
}
