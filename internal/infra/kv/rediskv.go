package kv

import (
	"context"
	"time"

	"milkrun/internal/domain/repository"
	"milkrun/internal/errors"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTimeout = 2 * time.Second

type redisStore struct {
	client    redis.UniversalClient
	keyPrefix string
	timeout   time.Duration
}

// NewRedisStore returns a KeyValueStore on top of client. Keys are namespaced
// with keyPrefix.
func NewRedisStore(client redis.UniversalClient, keyPrefix string, timeout time.Duration) repository.KeyValueStore {
	if timeout <= 0 {
		timeout = defaultRedisTimeout
	}

	return &redisStore{client: client, keyPrefix: keyPrefix, timeout: timeout}
}

func (s *redisStore) key(k string) string {
	return s.keyPrefix + k
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	value, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "redis get")
	}

	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return errors.Wrap(s.client.Set(ctx, s.key(key), value, 0).Err(), "redis set")
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return errors.Wrap(s.client.Del(ctx, s.key(key)).Err(), "redis del")
}
