// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

/*
TestBuildKey verifies the key layout and that it round-trips its timestamp.
*/
func TestBuildKey(t *testing.T) {
	now := time.Unix(1717200000, 123)
	key := BuildKey("gh-1", "Ocean View Room.JPG", ".jpg", []byte("pixels"), now)

	assert.True(t, strings.HasPrefix(key, "guesthouse-gh-1/1717200000000000123-"))
	assert.True(t, strings.HasSuffix(key, "-ocean-view-room.jpg"))

	parsed, ok := KeyTime(key)
	require.True(t, ok)
	assert.True(t, parsed.Equal(now))

	// Same name, different content: different key.
	other := BuildKey("gh-1", "Ocean View Room.JPG", ".jpg", []byte("other"), now)
	assert.NotEqual(t, key, other)

	assert.Contains(t, BuildKey("gh-1", "???.png", ".png", nil, now), "-photo.png")
}

/*
TestLocalStore_Lifecycle exercises put, list, url mapping and delete on disk.
*/
func TestLocalStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	key := "guesthouse-gh-1/1-abc-photo.jpg"
	require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("jpeg")), "image/jpeg"))

	content, err := os.ReadFile(filepath.Join(store.RootPath, "guesthouse-gh-1", "1-abc-photo.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(content))

	keys, err := store.List(ctx, "guesthouse-")
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	url := store.URL(key)
	assert.Equal(t, "/media/"+key, url)
	back, ok := store.Key(url)
	require.True(t, ok)
	assert.Equal(t, key, back)

	_, ok = store.Key("https://elsewhere.example/" + key)
	assert.False(t, ok)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key), "deleting a missing key is not an error")

	keys, err = store.List(ctx, "guesthouse-")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

/*
TestLocalStore_RejectsTraversal ensures keys cannot escape the root.
*/
func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	err = store.Put(context.Background(), "../escape.jpg", bytes.NewReader(nil), "image/jpeg")
	assert.Error(t, err)
}

/*
TestS3PublicBase covers URL prefix selection.
*/
func TestS3PublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example", s3PublicBase(S3Options{PublicBaseURL: "https://cdn.example", Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/photos", s3PublicBase(S3Options{Endpoint: "http://minio:9000/", Bucket: "photos"}))
	assert.Equal(t, "https://photos.s3.eu-west-1.amazonaws.com", s3PublicBase(S3Options{Bucket: "photos", Region: "eu-west-1"}))

	store, err := NewS3Store(S3Options{Bucket: "photos", Region: "auto", Endpoint: "http://minio:9000"})
	require.NoError(t, err)
	key, ok := store.Key("http://minio:9000/photos/guesthouse-1/a.jpg")
	require.True(t, ok)
	assert.Equal(t, "guesthouse-1/a.jpg", key)
}

type staticRefs []string

func (refs staticRefs) ReferencedURLs(context.Context) ([]string, error) { return refs, nil }

/*
TestSweeper_DeletesOnlyOldOrphans checks referenced and fresh objects survive.
*/
func TestSweeper_DeletesOnlyOldOrphans(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	now := time.Now()
	old := now.Add(-2 * time.Hour)

	referenced := BuildKey("gh-1", "kept.jpg", ".jpg", []byte("a"), old)
	orphan := BuildKey("gh-1", "orphan.jpg", ".jpg", []byte("b"), old)
	fresh := BuildKey("gh-1", "fresh.jpg", ".jpg", []byte("c"), now)

	for _, key := range []string{referenced, orphan, fresh} {
		require.NoError(t, store.Put(ctx, key, bytes.NewReader([]byte("x")), "image/jpeg"))
	}

	sweeper := NewSweeper(store, staticRefs{store.URL(referenced)}, discardLogger)
	sweeper.now = func() time.Time { return now }

	report, err := sweeper.Sweep(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, []string{orphan}, report.Orphans)
	assert.Zero(t, report.Deleted)

	report, err = sweeper.Sweep(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	keys, err := store.List(ctx, "guesthouse-")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{referenced, fresh}, keys)
}
