// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache implements the read-view cache in front of list queries.

Every namespace has a generation counter in Redis. Entries are JSON documents
stored under "view:<namespace>:<generation>:<parts...>"; [Views.Invalidate]
bumps the counter, so a mutation orphans every entry written before it. A
reader that loaded old rows while the mutation committed writes its result
under the old generation, where nobody reads it again. The TTL only bounds
memory for orphaned entries.

Redis is never on the correctness path: a lookup or write failure is logged and
the loader result is returned as if the cache did not exist.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/innkeep/internal/platform/constants"
	"github.com/taibuivan/innkeep/internal/platform/metrics"
)

// Namespaces invalidated by the domain services.
const (
	NamespaceGuesthouses = "guesthouses"
	NamespaceRooms       = "rooms"
	NamespacePhotos      = "photos"
	NamespaceDashboard   = "dashboard"
)

// Lookup results reported to metrics.
const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// Views is a Redis-backed view cache. A nil *Views disables caching.
type Views struct {
	client  redis.UniversalClient
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a view cache. The metrics collector may be nil.
func New(client redis.UniversalClient, ttl time.Duration, collector *metrics.Metrics, logger *slog.Logger) *Views {
	return &Views{client: client, ttl: ttl, metrics: collector, logger: logger}
}

// ViewKey names one cached view inside a namespace.
type ViewKey struct {
	namespace string
	name      string
}

// Key builds a view key inside namespace.
func Key(namespace string, parts ...string) ViewKey {
	return ViewKey{namespace: namespace, name: strings.Join(parts, ":")}
}

func (key ViewKey) String() string {
	return key.namespace + ":" + key.name
}

// entry is the Redis key of the view at generation.
func (key ViewKey) entry(generation int64) string {
	return constants.RedisPrefixView + key.namespace + ":" + strconv.FormatInt(generation, 10) + ":" + key.name
}

func generationKey(namespace string) string {
	return constants.RedisPrefixViewGeneration + namespace
}

/*
Load returns the cached value at key, or runs loader and caches its result.

The generation is read before loader runs. Loader errors are returned unchanged
and never cached.
*/
func Load[T any](ctx context.Context, views *Views, key ViewKey, loader func(ctx context.Context) (T, error)) (T, error) {
	if views == nil {
		return loader(ctx)
	}

	generation, err := views.generation(ctx, key.namespace)
	if err != nil {
		views.logger.Warn("view_cache_generation_failed", slog.String("namespace", key.namespace), slog.Any("error", err))
		views.metrics.CacheLookup(resultError)
		return loader(ctx)
	}
	entry := key.entry(generation)

	raw, err := views.client.Get(ctx, entry).Bytes()
	switch {
	case err == nil:
		var cached T
		if decodeErr := json.Unmarshal(raw, &cached); decodeErr == nil {
			views.metrics.CacheLookup(resultHit)
			return cached, nil
		}
		views.logger.Warn("view_cache_decode_failed", slog.String("key", entry))
		views.metrics.CacheLookup(resultError)
	case errors.Is(err, redis.Nil):
		views.metrics.CacheLookup(resultMiss)
	default:
		views.logger.Warn("view_cache_get_failed", slog.String("key", entry), slog.Any("error", err))
		views.metrics.CacheLookup(resultError)
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		return value, nil
	}

	if err := views.client.Set(ctx, entry, encoded, views.ttl).Err(); err != nil {
		views.logger.Warn("view_cache_set_failed", slog.String("key", entry), slog.Any("error", err))
	}

	return value, nil
}

// generation returns the current generation of namespace; a missing counter is zero.
func (views *Views) generation(ctx context.Context, namespace string) (int64, error) {
	generation, err := views.client.Get(ctx, generationKey(namespace)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return generation, err
}

// Invalidate orphans every entry in the given namespaces by bumping their
// generations. Call it after the mutation has committed.
func (views *Views) Invalidate(ctx context.Context, namespaces ...string) {
	if views == nil || len(namespaces) == 0 {
		return
	}

	_, err := views.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, namespace := range namespaces {
			pipe.Incr(ctx, generationKey(namespace))
		}
		return nil
	})
	if err != nil {
		views.logger.Warn("view_cache_invalidate_failed",
			slog.String("namespaces", strings.Join(namespaces, ",")),
			slog.Any("error", err),
		)
	}
}
