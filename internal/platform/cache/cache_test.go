// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/innkeep/internal/platform/cache"
)

type listing struct {
	Name  string `json:"name"`
	Rooms int    `json:"rooms"`
}

func newViews(t *testing.T) (*cache.Views, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return cache.New(client, time.Minute, nil, logger), server
}

/*
TestLoad_ReadThrough verifies the loader runs once and later reads hit Redis.
*/
func TestLoad_ReadThrough(t *testing.T) {
	ctx := context.Background()
	views, server := newViews(t)

	calls := 0
	loader := func(context.Context) (listing, error) {
		calls++
		return listing{Name: "Seaside", Rooms: 3}, nil
	}

	key := cache.Key(cache.NamespaceGuesthouses, "all", "1", "20")
	assert.Equal(t, "guesthouses:all:1:20", key.String())

	first, err := cache.Load(ctx, views, key, loader)
	require.NoError(t, err)
	second, err := cache.Load(ctx, views, key, loader)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.True(t, server.Exists("view:guesthouses:0:all:1:20"))
	assert.Equal(t, time.Minute, server.TTL("view:guesthouses:0:all:1:20"))
}

/*
TestLoad_ErrorsAreNotCached ensures a failing loader leaves no entry.
*/
func TestLoad_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	views, server := newViews(t)

	boom := errors.New("boom")
	_, err := cache.Load(ctx, views, cache.Key(cache.NamespaceRooms, "x"), func(context.Context) (listing, error) {
		return listing{}, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, server.Exists("view:rooms:0:x"))
}

/*
TestInvalidate_DropsNamespaceOnly checks a bump only affects the named namespaces.
*/
func TestInvalidate_DropsNamespaceOnly(t *testing.T) {
	ctx := context.Background()
	views, _ := newViews(t)

	calls := map[string]int{}
	load := func(namespace string) {
		_, err := cache.Load(ctx, views, cache.Key(namespace, "all"), func(context.Context) (listing, error) {
			calls[namespace]++
			return listing{Name: namespace}, nil
		})
		require.NoError(t, err)
	}

	for _, namespace := range []string{cache.NamespaceGuesthouses, cache.NamespaceDashboard, cache.NamespacePhotos} {
		load(namespace)
	}

	views.Invalidate(ctx, cache.NamespaceGuesthouses, cache.NamespaceDashboard)

	for _, namespace := range []string{cache.NamespaceGuesthouses, cache.NamespaceDashboard, cache.NamespacePhotos} {
		load(namespace)
	}

	assert.Equal(t, 2, calls[cache.NamespaceGuesthouses])
	assert.Equal(t, 2, calls[cache.NamespaceDashboard])
	assert.Equal(t, 1, calls[cache.NamespacePhotos])
}

/*
TestLoad_InvalidateDuringLoad covers a mutation committing while a reader is
still loading: the reader's stale result must not be served afterwards.
*/
func TestLoad_InvalidateDuringLoad(t *testing.T) {
	ctx := context.Background()
	views, _ := newViews(t)
	key := cache.Key(cache.NamespaceGuesthouses, "manager-m1", "1", "20")

	stale, err := cache.Load(ctx, views, key, func(context.Context) (listing, error) {
		// The write lands and invalidates after this reader queried.
		views.Invalidate(ctx, cache.NamespaceGuesthouses)
		return listing{Name: "Seaside", Rooms: 3}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Seaside", stale.Name)

	fresh, err := cache.Load(ctx, views, key, func(context.Context) (listing, error) {
		return listing{}, nil
	})
	require.NoError(t, err)
	assert.Empty(t, fresh.Name)
}

/*
TestViews_Degraded verifies Redis outages and a nil cache fall through to the loader.
*/
func TestViews_Degraded(t *testing.T) {
	ctx := context.Background()
	views, server := newViews(t)
	server.Close()

	key := cache.Key(cache.NamespaceRooms, "all")

	value, err := cache.Load(ctx, views, key, func(context.Context) (listing, error) {
		return listing{Name: "Ocean View"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ocean View", value.Name)

	views.Invalidate(ctx, cache.NamespaceRooms)

	var disabled *cache.Views
	value, err = cache.Load(ctx, disabled, key, func(context.Context) (listing, error) {
		return listing{Name: "Garden"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Garden", value.Name)

	disabled.Invalidate(ctx, cache.NamespaceRooms)
}
