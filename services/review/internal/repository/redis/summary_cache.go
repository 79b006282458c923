package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/quitanda/ecommerce/pkg/errors"
	"github.com/quitanda/ecommerce/services/review/internal/domain"
)

const defaultSummaryTTL = 5 * time.Minute

// SummaryCache caches rating summaries in Redis in front of the Postgres
// summary table. Entries are invalidated whenever a moderation transaction
// recomputes the summary.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache creates a summary cache with the default TTL.
func NewSummaryCache(client *redis.Client) *SummaryCache {
	return &SummaryCache{client: client, ttl: defaultSummaryTTL}
}

func summaryKey(productID string) string {
	return "review:summary:" + productID
}

// Get returns the cached summary or a NotFound error on cache miss.
func (c *SummaryCache) Get(ctx context.Context, productID string) (*domain.ReviewSummary, error) {
	data, err := c.client.Get(ctx, summaryKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("cached summary", productID)
		}
		return nil, fmt.Errorf("get cached summary: %w", err)
	}

	var summary domain.ReviewSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode cached summary: %w", err)
	}

	return &summary, nil
}

// Set stores the summary with the cache TTL.
func (c *SummaryCache) Set(ctx context.Context, summary *domain.ReviewSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary for cache: %w", err)
	}

	if err := c.client.Set(ctx, summaryKey(summary.ProductID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache summary: %w", err)
	}

	return nil
}

// Invalidate drops the cached summary for a product.
func (c *SummaryCache) Invalidate(ctx context.Context, productID string) error {
	if err := c.client.Del(ctx, summaryKey(productID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached summary: %w", err)
	}

	return nil
}
