// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/olegiv/restro-web/internal/metrics"
)

// TypedCache stores JSON-encoded values of one type under a key group.
// Keys are stored as "<group>:<key>".
type TypedCache[T any] struct {
	cache      Cacher
	group      string
	defaultTTL time.Duration
	flight     singleflight.Group
}

// NewTypedCache creates a typed view of cache for group.
func NewTypedCache[T any](cache Cacher, group string, defaultTTL time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: cache, group: group, defaultTTL: defaultTTL}
}

// Group returns the key group.
func (c *TypedCache[T]) Group() string {
	return c.group
}

func (c *TypedCache[T]) key(key string) string {
	return c.group + ":" + key
}

// Get returns the cached value for key.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, c.key(key))
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			slog.WarnContext(ctx, "cache read failed", "group", c.group, "error", err)
		}
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		slog.WarnContext(ctx, "cache entry undecodable", "group", c.group, "key", key, "error", err)
		return value, false
	}
	return value, true
}

// Set stores value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores value with a custom TTL.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, c.key(key), data, ttl)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, c.key(key))
}

// GetOrSet returns the cached value for key or loads, stores and returns
// it. Concurrent misses for the same key share a single load, which is not
// canceled with the first caller. Load errors are returned and nothing is
// cached.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		metrics.CacheLookups.WithLabelValues(c.group, "hit").Inc()
		return value, nil
	}
	metrics.CacheLookups.WithLabelValues(c.group, "miss").Inc()

	v, err, _ := c.flight.Do(key, func() (any, error) {
		value, err := load(context.WithoutCancel(ctx))
		if err != nil {
			return value, err
		}
		if err := c.Set(ctx, key, value); err != nil {
			slog.WarnContext(ctx, "cache write failed", "group", c.group, "error", err)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
