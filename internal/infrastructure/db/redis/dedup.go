package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Providers retry webhooks for up to three days; keep markers a little longer.
const dedupTTL = 72 * time.Hour

// DedupChecker provides webhook idempotency checks backed by Redis.
// Key format: webhook:<provider>:<event_id>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this provider event has already been applied.
func (d *DedupChecker) IsDuplicate(ctx context.Context, provider, eventID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(provider, eventID)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been applied (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, provider, eventID string) error {
	return d.client.Set(ctx, d.key(provider, eventID), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(provider, eventID string) string {
	return fmt.Sprintf("webhook:%s:%s", provider, eventID)
}
