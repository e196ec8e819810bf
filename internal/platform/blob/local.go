// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on the filesystem. The API serves RootPath under
// the base URL, so it is meant for development and single-node setups.
type LocalStore struct {
	publicBase
	// RootPath is the directory objects are written under (e.g., "./data/uploads")
	RootPath string
}

// NewLocalStore ensures root exists and returns a store serving under baseURL.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blob: failed to create local root: %w", err)
	}

	absolute, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("blob: failed to resolve local root: %w", err)
	}

	return &LocalStore{publicBase: newPublicBase(baseURL), RootPath: absolute}, nil
}

// path resolves key inside RootPath, refusing keys that escape it.
func (l *LocalStore) path(key string) (string, error) {
	full := filepath.Join(l.RootPath, filepath.FromSlash(key))
	if full == l.RootPath || !strings.HasPrefix(full, l.RootPath+string(filepath.Separator)) {
		return "", fmt.Errorf("blob: key %q escapes storage root", key)
	}
	return full, nil
}

func (l *LocalStore) Put(ctx context.Context, key string, body io.ReadSeeker, contentType string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}

	// Ensure sub-directories exist (e.g. root/guesthouse-<id>/file.jpg)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}

	f, err := os.Create(full)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, body)
	return err
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	full, err := l.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (l *LocalStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	err := filepath.WalkDir(l.RootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return ctx.Err()
		}

		// Convert OS path back to S3-style key (forward slashes)
		rel, err := filepath.Rel(l.RootPath, path)
		if err != nil {
			return err
		}

		key := filepath.ToSlash(rel)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	})

	return keys, err
}
