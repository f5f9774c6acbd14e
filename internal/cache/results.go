// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ResultStore holds serialized recommendation results keyed by a string that
// already embeds the dataset version, so entries never need explicit
// invalidation to stay correct. Purge exists to free memory early when a
// review is written.
type ResultStore interface {
	// Get returns the stored payload. found is false on a miss.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)

	// Set stores a payload with the store's TTL.
	Set(ctx context.Context, key string, payload []byte) error

	// Purge drops all entries owned by this store.
	Purge(ctx context.Context) error

	// Name identifies the backend in logs and metrics.
	Name() string
}

// MemoryStore is a ResultStore backed by the in-process LRU.
type MemoryStore struct {
	lru *LRU[string, []byte]
}

// NewMemoryStore creates an in-memory result store.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{lru: NewLRU[string, []byte](capacity, ttl)}
}

// Get implements ResultStore.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	payload, ok := m.lru.Get(key)
	return payload, ok, nil
}

// Set implements ResultStore.
func (m *MemoryStore) Set(_ context.Context, key string, payload []byte) error {
	m.lru.Add(key, payload)
	return nil
}

// Purge implements ResultStore.
func (m *MemoryStore) Purge(_ context.Context) error {
	m.lru.Clear()
	return nil
}

// Name implements ResultStore.
func (m *MemoryStore) Name() string { return "memory" }

// Stats exposes the underlying LRU counters.
func (m *MemoryStore) Stats() Stats { return m.lru.Stats() }

// RedisConfig configures the Redis result store.
type RedisConfig struct {
	// URL is a redis:// connection URL.
	URL string

	// Prefix namespaces all keys written by this store.
	// Default: "cinerec:results:"
	Prefix string

	// TTL bounds entry lifetime.
	// Default: 10m.
	TTL time.Duration

	// DialTimeout bounds the initial ping.
	// Default: 5s.
	DialTimeout time.Duration
}

// RedisStore is a ResultStore shared across replicas through Redis.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "cinerec:results:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Minute
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisStoreFromClient(rdb, cfg.Prefix, cfg.TTL), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// Get implements ResultStore.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

// Set implements ResultStore.
func (s *RedisStore) Set(ctx context.Context, key string, payload []byte) error {
	if err := s.rdb.Set(ctx, s.prefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Purge implements ResultStore by scanning the store prefix.
func (s *RedisStore) Purge(ctx context.Context) error {
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", 500).Iterator()
	batch := make([]string, 0, 500)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan: %w", err)
	}
	if len(batch) > 0 {
		if err := s.rdb.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
	}
	return nil
}

// Name implements ResultStore.
func (s *RedisStore) Name() string { return "redis" }

// Close releases the Redis connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
