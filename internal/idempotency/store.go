package idempotency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// Store remembers Idempotency-Key values in Redis for ttl.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(scope, key string) string {
	return fmt.Sprintf("idem:%s:%s", scope, key)
}

// Reserve claims key. It reports false when the key was already claimed.
func (s *Store) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, key, pending, s.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Complete records the id of the resource the request produced.
func (s *Store) Complete(ctx context.Context, key, resourceID string) error {
	return s.rdb.Set(ctx, key, resourceID, redis.KeepTTL).Err()
}

// Release forgets key so the client may retry after a failed request.
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Lookup returns the recorded resource id, or "" while the first request is in flight.
func (s *Store) Lookup(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) || v == pending {
		return "", nil
	}
	return v, err
}
