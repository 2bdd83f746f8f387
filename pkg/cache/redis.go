package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"feature-catalog-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	redisPrefix     = "catalog:options"
	generationKey   = redisPrefix + ":generation"
	redisLogModule  = "OPTIONS_CACHE"
	redisOpsTimeout = 500 * time.Millisecond
)

// RedisCache shares options between instances. Flush bumps a generation
// counter that is part of every key, so stale entries are simply never read
// again and expire on their own.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger logger.ILogger) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (r *RedisCache) generation(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *RedisCache) key(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", redisPrefix, gen, key)
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpsTimeout)
	defer cancel()

	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.Warn(redisLogModule, "Failed to read cache generation", map[string]interface{}{"error": err.Error()})
		return nil, false
	}
	raw, err := r.rdb.Get(ctx, r.key(gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn(redisLogModule, "Failed to read cached options", map[string]interface{}{"error": err.Error(), "key": key})
		}
		return nil, false
	}
	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, false
	}
	return values, true
}

func (r *RedisCache) Generation(ctx context.Context) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpsTimeout)
	defer cancel()

	gen, err := r.generation(ctx)
	if err != nil {
		r.logger.Warn(redisLogModule, "Failed to read cache generation", map[string]interface{}{"error": err.Error()})
		return 0, false
	}
	return gen, true
}

// Set writes under gen's namespace. A value computed before a Flush lands in a
// generation nobody reads anymore.
func (r *RedisCache) Set(ctx context.Context, gen int64, key string, values []string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpsTimeout)
	defer cancel()

	raw, err := json.Marshal(values)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, r.key(gen, key), raw, r.ttl).Err(); err != nil {
		r.logger.Warn(redisLogModule, "Failed to cache options", map[string]interface{}{"error": err.Error(), "key": key})
	}
}

func (r *RedisCache) Flush(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, redisOpsTimeout)
	defer cancel()

	if err := r.rdb.Incr(ctx, generationKey).Err(); err != nil {
		r.logger.Error(redisLogModule, "Failed to invalidate options cache", map[string]interface{}{"error": err.Error()})
	}
}
