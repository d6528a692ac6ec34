// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, CategoryListKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestCategoryCacheSetGetInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	cc := NewCategoryCache(client, time.Minute)
	ctx := context.Background()

	cc.Invalidate(ctx)

	// Miss.
	data, ok := cc.Get(ctx)
	if ok || data != nil {
		t.Fatalf("expected miss, got %q", data)
	}

	payload := []byte(`[{"categoryId":1,"categoryName":"Amenities","options":[]}]`)
	cc.Set(ctx, payload)

	data, ok = cc.Get(ctx)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(payload) {
		t.Errorf("data mismatch: got %q, want %q", data, payload)
	}

	ttl, err := client.TTL(ctx, CategoryListKey).Result()
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("unexpected ttl %v", ttl)
	}

	cc.Invalidate(ctx)
	if _, ok := cc.Get(ctx); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestNewCategoryCacheDefaultTTL(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	cc := NewCategoryCache(client, 0)
	if cc.ttl != DefaultCategoryTTL {
		t.Errorf("expected DefaultCategoryTTL (%v), got %v", DefaultCategoryTTL, cc.ttl)
	}
}

// TestCategoryCacheUnreachable checks that a dead Valkey degrades to misses.
func TestCategoryCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	cc := NewCategoryCache(client, time.Minute)
	ctx := context.Background()

	cc.Set(ctx, []byte("x"))
	if _, ok := cc.Get(ctx); ok {
		t.Error("expected miss when Valkey is unreachable")
	}
	cc.Invalidate(ctx)
}
