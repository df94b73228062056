// Package cache holds aggregated dashboard views for a short TTL. The
// invalidation contract is part of every mutator's interface: any write
// anywhere in the system clears the whole cache, so readers never see a
// view older than the mutation that follows it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewKeyPrefix = "view:"

// Invalidator is the write-side half of the cache contract. Mutating
// services hold only this.
type Invalidator interface {
	Clear(ctx context.Context) error
}

// ViewCache is what the read side consumes.
type ViewCache interface {
	Invalidator
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// Redis is the redis-backed ViewCache. Values are JSON, keyed under a
// common prefix so a full clear is one SCAN.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedis(rdb *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

func (c *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.rdb.Get(ctx, viewKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

func (c *Redis) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	return c.rdb.Set(ctx, viewKeyPrefix+key, data, c.ttl).Err()
}

// Clear evicts every cached view. No partial invalidation: a full clear on
// any mutation keeps the dashboard correct at the cost of one cold render.
func (c *Redis) Clear(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, viewKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache clear: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}

var _ ViewCache = (*Redis)(nil)
