// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores photo binaries in an object store.

Three providers implement [Store]: S3-compatible buckets (aws-sdk-go), Supabase
Storage, and the local filesystem for development. The database keeps only the
public URL; [Store.Key] maps that URL back to the object key so deletes and the
orphan [Sweeper] can operate on rows alone.
*/
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/taibuivan/innkeep/internal/platform/config"
)

// Store is the provider-agnostic object store used for photos.
type Store interface {
	// Put writes body under key, replacing any existing object.
	Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every key starting with prefix.
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns the public URL of key.
	URL(key string) string

	// Key reverses [Store.URL]. It reports false for URLs this store did not issue.
	Key(url string) (string, bool)
}

// New builds the [Store] selected by BLOB_PROVIDER.
func New(cfg *config.Config) (Store, error) {
	switch cfg.BlobProvider {
	case config.BlobProviderS3:
		return NewS3Store(S3Options{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	case config.BlobProviderSupabase:
		return NewSupabaseStore(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket), nil
	case config.BlobProviderLocal:
		return NewLocalStore(cfg.LocalBlobRoot, cfg.LocalBlobBaseURL)
	default:
		return nil, fmt.Errorf("blob: unknown provider %q", cfg.BlobProvider)
	}
}

// publicBase maps keys to URLs under a fixed base and back.
type publicBase string

func newPublicBase(base string) publicBase {
	return publicBase(strings.TrimRight(base, "/"))
}

func (base publicBase) URL(key string) string {
	return string(base) + "/" + key
}

func (base publicBase) Key(url string) (string, bool) {
	prefix := string(base) + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return url[len(prefix):], true
}
