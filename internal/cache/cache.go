// Package cache memoizes calculation results. Computation is deterministic,
// so a cached result for a canonicalized request is always valid. Tier 1 is
// an in-process LRU; tier 2 is an optional Redis instance shared between
// replicas, guarded by a circuit breaker so an unhealthy Redis degrades the
// cache instead of the request path.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/clinscore-server/internal/domain"
)

const redisKeyPrefix = "clinscore:result:"

// Stats tracks cache effectiveness per tier.
type Stats struct {
	MemoryHits   int64 `json:"memory_hits"`
	RedisHits    int64 `json:"redis_hits"`
	Misses       int64 `json:"misses"`
	RedisSkipped int64 `json:"redis_skipped"`
}

// ResultCache is a two-tier domain.ResultCache implementation.
type ResultCache struct {
	logger  *logrus.Logger
	memory  *lru.Cache[string, *domain.CalculationResult]
	redis   *redis.Client
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration

	memoryHits   atomic.Int64
	redisHits    atomic.Int64
	misses       atomic.Int64
	redisSkipped atomic.Int64
}

// New creates the cache. A nil or empty Redis URL leaves tier 2 disabled.
func New(logger *logrus.Logger, cfg *domain.CacheConfig) (*ResultCache, error) {
	memory, err := lru.New[string, *domain.CalculationResult](cfg.MaxEntries)
	if err != nil {
		return nil, err
	}

	c := &ResultCache{
		logger: logger,
		memory: memory,
		ttl:    cfg.DefaultTTL,
	}

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		opts.PoolSize = cfg.PoolSize
		opts.PoolTimeout = cfg.PoolTimeout
		opts.MaxRetries = cfg.MaxRetries
		c.redis = redis.NewClient(opts)
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name: "redis-result-cache",
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.WithFields(logrus.Fields{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				}).Warn("Cache circuit breaker state changed")
			},
		})
	}

	logger.WithFields(logrus.Fields{
		"max_entries":   cfg.MaxEntries,
		"redis_enabled": c.redis != nil,
		"ttl":           cfg.DefaultTTL,
	}).Info("Initialized result cache")

	return c, nil
}

// Get looks the key up in the memory tier, then Redis. A Redis hit is
// promoted into the memory tier.
func (c *ResultCache) Get(ctx context.Context, key string) (*domain.CalculationResult, bool) {
	if result, ok := c.memory.Get(key); ok {
		c.memoryHits.Add(1)
		return result, true
	}

	if c.redis != nil {
		if result, ok := c.getRedis(ctx, key); ok {
			c.redisHits.Add(1)
			c.memory.Add(key, result)
			return result, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Put stores the result in both tiers. Redis failures are swallowed; the
// memory tier alone keeps the cache functional.
func (c *ResultCache) Put(ctx context.Context, key string, result *domain.CalculationResult) {
	c.memory.Add(key, result)

	if c.redis == nil {
		return
	}

	_, err := c.breaker.Execute(func() (any, error) {
		payload, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		return nil, c.redis.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err()
	})
	if err != nil {
		c.redisSkipped.Add(1)
		c.logger.WithError(err).Debug("Redis cache write skipped")
	}
}

func (c *ResultCache) getRedis(ctx context.Context, key string) (*domain.CalculationResult, bool) {
	payload, err := c.breaker.Execute(func() (any, error) {
		return c.redis.Get(ctx, redisKeyPrefix+key).Bytes()
	})
	if err != nil {
		if err != redis.Nil {
			c.redisSkipped.Add(1)
			c.logger.WithError(err).Debug("Redis cache read skipped")
		}
		return nil, false
	}

	var result domain.CalculationResult
	if err := json.Unmarshal(payload.([]byte), &result); err != nil {
		c.logger.WithError(err).Warn("Discarding undecodable cache entry")
		return nil, false
	}
	return &result, true
}

// Stats returns a snapshot of the per-tier counters.
func (c *ResultCache) Stats() Stats {
	return Stats{
		MemoryHits:   c.memoryHits.Load(),
		RedisHits:    c.redisHits.Load(),
		Misses:       c.misses.Load(),
		RedisSkipped: c.redisSkipped.Load(),
	}
}

// Len returns the number of entries in the memory tier.
func (c *ResultCache) Len() int {
	return c.memory.Len()
}

// Close releases the Redis connection, if any.
func (c *ResultCache) Close() error {
	if c.redis != nil {
		return c.redis.Close()
	}
	return nil
}
