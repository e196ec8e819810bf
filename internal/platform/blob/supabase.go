// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// supabaseListPage is the page size used when walking folders.
const supabaseListPage = 1000

// SupabaseStore stores objects in a Supabase Storage bucket.
//
// The storage-go client has no context support; calls are bounded by the
// HTTP client's own timeouts instead.
type SupabaseStore struct {
	publicBase
	client *storage.Client
	bucket string
}

// NewSupabaseStore creates a client for projectURL with a service key.
func NewSupabaseStore(projectURL, key, bucket string) *SupabaseStore {
	projectURL = strings.TrimRight(projectURL, "/")

	return &SupabaseStore{
		publicBase: newPublicBase(projectURL + "/storage/v1/object/public/" + bucket),
		client:     storage.NewClient(projectURL+"/storage/v1", key, nil),
		bucket:     bucket,
	}
}

func (s *SupabaseStore) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	upsert := true
	options := storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	}

	if _, err := s.client.UploadFile(s.bucket, key, body, options); err != nil {
		return fmt.Errorf("blob: supabase upload failed: %w", err)
	}
	return nil
}

func (s *SupabaseStore) Delete(ctx context.Context, key string) error {
	if _, err := s.client.RemoveFile(s.bucket, []string{key}); err != nil {
		return fmt.Errorf("blob: supabase remove failed: %w", err)
	}
	return nil
}

// List walks folders because Supabase lists one level at a time.
func (s *SupabaseStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	if err := s.walk(ctx, "", prefix, &keys); err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *SupabaseStore) walk(ctx context.Context, folder, prefix string, keys *[]string) error {
	for offset := 0; ; offset += supabaseListPage {
		if err := ctx.Err(); err != nil {
			return err
		}

		entries, err := s.client.ListFiles(s.bucket, folder, storage.FileSearchOptions{
			Limit:  supabaseListPage,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("blob: supabase list failed: %w", err)
		}

		for _, entry := range entries {
			key := entry.Name
			if folder != "" {
				key = folder + "/" + entry.Name
			}

			// Folders come back without an object id.
			if entry.Id == "" {
				if strings.HasPrefix(key, prefix) || strings.HasPrefix(prefix, key+"/") {
					if err := s.walk(ctx, key, prefix, keys); err != nil {
						return err
					}
				}
				continue
			}

			if strings.HasPrefix(key, prefix) {
				*keys = append(*keys, key)
			}
		}

		if len(entries) < supabaseListPage {
			return nil
		}
	}
}
