package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	// eventDedupPrefix is the Redis key prefix for seen provider event ids.
	eventDedupPrefix = "webhook:event:"
	// eventDedupTTL covers the provider's webhook retry horizon.
	eventDedupTTL = 72 * time.Hour
)

// MarkEventSeen records a provider event id and reports whether it was new.
// This is a fast-path filter in front of the database's unique constraint;
// the constraint stays authoritative, so losing Redis state is harmless.
func (c *Cache) MarkEventSeen(ctx context.Context, eventID string) (bool, error) {
	key := eventDedupPrefix + eventID

	isNew, err := c.client.SetNX(ctx, key, "1", eventDedupTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event seen: %w", err)
	}

	return isNew, nil
}

// ForgetEvent removes a seen-event marker. Used when processing fails after
// the fast-path check so a provider redelivery is not filtered out.
func (c *Cache) ForgetEvent(ctx context.Context, eventID string) error {
	key := eventDedupPrefix + eventID

	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to forget event: %w", err)
	}

	return nil
}
