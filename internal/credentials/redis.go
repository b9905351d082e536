package credentials

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the token in Redis under "<prefix>:token".
// A positive ttl makes the token expire with the session.
type RedisStore struct {
	rdb redis.Cmdable
	key string
	ttl time.Duration
}

func NewRedisStore(rdb redis.Cmdable, prefix string, ttl time.Duration) *RedisStore {
	key := TokenKey
	if prefix != "" {
		key = prefix + ":" + TokenKey
	}
	return &RedisStore{rdb: rdb, key: key, ttl: ttl}
}

// NewRedisStoreFromURL connects using a redis:// URL.
func NewRedisStoreFromURL(ctx context.Context, redisURL, prefix string, ttl time.Duration) (*RedisStore, *redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("pinging redis: %w", err)
	}
	return NewRedisStore(rdb, prefix, ttl), rdb, nil
}

// Key returns the redis key holding the token.
func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading session token: %w", err)
	}
	return token, nil
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	if err := s.rdb.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("writing session token: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearToken(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}
