package orders

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "orders:idem:"

// IdempotencyStore remembers submission keys so a retried order request is
// not placed twice.
type IdempotencyStore interface {
	// Claim marks the key as used; it returns false when the key was
	// already claimed by an earlier request.
	Claim(ctx context.Context, key string) (bool, error)
}

type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisIdempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	return s.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, s.ttl).Result()
}
