// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

var _ IdentityCache = (*RedisIdentityCache)(nil)

// RedisIdentityCache implements [IdentityCache] using Redis string keys.
type RedisIdentityCache struct {
	client redis.UniversalClient
}

// NewIdentityCache creates a new Redis-backed [IdentityCache].
func NewIdentityCache(client redis.UniversalClient) *RedisIdentityCache {
	return &RedisIdentityCache{client: client}
}

func identityKey(userID int64) string {
	return constants.RedisPrefixIdentity + strconv.FormatInt(userID, 10)
}

/*
Get retrieves the cached identity.

Returns:
  - *sec.Identity: nil when the key is absent or expired
  - error: Connectivity or decoding failures
*/
func (cache *RedisIdentityCache) Get(context context.Context, userID int64) (*sec.Identity, error) {
	payload, err := cache.client.Get(context, identityKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_identity_get_failed: %w", err)
	}

	identity := &sec.Identity{}
	if err := json.Unmarshal(payload, identity); err != nil {
		return nil, fmt.Errorf("redis_identity_decode_failed: %w", err)
	}

	return identity, nil
}

// Set stores the identity with a TTL.
func (cache *RedisIdentityCache) Set(context context.Context, identity *sec.Identity, ttl time.Duration) error {
	payload, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("redis_identity_encode_failed: %w", err)
	}

	if err := cache.client.Set(context, identityKey(identity.UserID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_identity_set_failed: %w", err)
	}

	return nil
}
