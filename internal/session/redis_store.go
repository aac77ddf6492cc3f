package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mongkol7/E-Bookstore/pkg/config"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "ebookstore"

// RedisStore persists sessions in Redis so that gateway restarts and
// scaled-out replicas see the same session set.
type RedisStore struct {
	raw *redis.Client
}

// NewRedisStore bootstraps the client from the configured URL and
// verifies connectivity before handing the store back.
func NewRedisStore(ctx context.Context, cfg config.RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{raw: raw}, nil
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:session:%s", keyNamespace, id)
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.raw.Set(ctx, s.key(key), value, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, err := s.raw.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *RedisStore) Del(ctx context.Context, keys ...string) error {
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.key(key))
	}
	return s.raw.Del(ctx, namespaced...).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.raw.Close()
}

// Ping exposes the health-check surface.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.raw.Ping(ctx).Err()
}
