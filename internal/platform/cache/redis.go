// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatch is the COUNT hint passed to SCAN.
const scanBatch = 100

// RedisBackend implements [Backend] on go-redis.
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps an already connected client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (backend *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := backend.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return raw, err
}

func (backend *RedisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return backend.client.Set(ctx, key, value, ttl).Err()
}

func (backend *RedisBackend) Delete(ctx context.Context, keys ...string) error {
	return backend.client.Del(ctx, keys...).Err()
}

// Keys walks the keyspace with SCAN; KEYS would block the server.
func (backend *RedisBackend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string

	iterator := backend.client.Scan(ctx, 0, prefix+"*", scanBatch).Iterator()
	for iterator.Next(ctx) {
		keys = append(keys, iterator.Val())
	}

	return keys, iterator.Err()
}
