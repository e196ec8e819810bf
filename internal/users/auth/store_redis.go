// Copyright (c) 2026 Innkeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/innkeep/internal/platform/constants"
)

// RedisRevocationStore implements [RevocationStore] using Redis keys that
// expire together with the token they revoke.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

/*
Revoke stores the token id until the token would have expired anyway.

Parameters:
  - context: context.Context
  - tokenID: string (the jti claim)
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	key := constants.RedisPrefixRevokedSession + tokenID
	if err := store.client.Set(context, key, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_revocation_set_failed: %w", err)
	}

	return nil
}

// IsRevoked reports whether the token id is present in the revocation set.
func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	key := constants.RedisPrefixRevokedSession + tokenID

	count, err := store.client.Exists(context, key).Result()
	if err != nil {
		return false, fmt.Errorf("redis_revocation_exists_failed: %w", err)
	}

	return count > 0, nil
}
