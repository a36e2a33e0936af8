// Package cache provides a best-effort Redis read cache for single-product
// lookups. A cache failure never fails the request; the store stays the
// source of truth.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"catalog-api/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProductCache caches customer-facing product reads keyed by both ID and
// slug, so either lookup path hits.
type ProductCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a ProductCache on the given Redis client.
func New(client *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *ProductCache {
	return &ProductCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached product for an ID or slug, if present.
func (c *ProductCache) Get(ctx context.Context, idOrSlug string) (*domain.Product, bool) {
	data, err := c.client.Get(ctx, c.prefix+idOrSlug).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var product domain.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Warn("Cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &product, true
}

// Set stores the product under both its ID and slug keys.
func (c *ProductCache) Set(ctx context.Context, product *domain.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Warn("Cache encode failed", zap.Error(err))
		return
	}

	for _, key := range c.keys(product) {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Invalidate drops both cache keys for a mutated product.
func (c *ProductCache) Invalidate(ctx context.Context, product *domain.Product) {
	if err := c.client.Del(ctx, c.keys(product)...).Err(); err != nil {
		c.logger.Warn("Cache invalidation failed", zap.Error(err))
	}
}

func (c *ProductCache) keys(product *domain.Product) []string {
	keys := []string{c.prefix + product.ID.String()}
	if product.Slug != "" {
		keys = append(keys, c.prefix+product.Slug)
	}
	return keys
}
