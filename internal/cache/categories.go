// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// categories.go caches the encoded category listing in Valkey so GET
// /categories skips the join query. Any successful category mutation must
// call Invalidate.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CategoryListKey is the Valkey key holding the encoded category list.
	CategoryListKey = "categories:all"

	// DefaultCategoryTTL bounds staleness if an invalidation is lost.
	DefaultCategoryTTL = time.Hour
)

// CategoryCache stores the JSON-encoded category listing. Valkey errors are
// logged and reported as misses; the cache never fails a request.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category cache backed by the given client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// Get returns the cached listing, if any.
func (c *CategoryCache) Get(ctx context.Context) ([]byte, bool) {
	val, err := c.client.Get(ctx, CategoryListKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("category cache get error", "error", err)
		return nil, false
	}
	slog.Debug("category cache hit")
	return val, true
}

// Set stores the encoded listing with the configured TTL.
func (c *CategoryCache) Set(ctx context.Context, data []byte) {
	if err := c.client.Set(ctx, CategoryListKey, data, c.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "error", err)
	}
}

// Invalidate drops the cached listing.
func (c *CategoryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, CategoryListKey).Err(); err != nil {
		slog.Warn("category cache invalidate error", "error", err)
		return
	}
	slog.Debug("category cache invalidated")
}
