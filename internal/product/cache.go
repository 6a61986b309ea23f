package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"storefront-be/internal/logger"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache holds product details keyed by id. Implementations never return
// errors; a failing backend behaves like a miss.
type Cache interface {
	Get(ctx context.Context, id uint) (*Product, bool)
	Set(ctx context.Context, p Product)
	Invalidate(ctx context.Context, ids ...uint)
}

type lruCache struct {
	lru *expirable.LRU[uint, Product]
}

func NewLRUCache(size int, ttl time.Duration) Cache {
	return &lruCache{lru: expirable.NewLRU[uint, Product](size, nil, ttl)}
}

func (c *lruCache) Get(_ context.Context, id uint) (*Product, bool) {
	p, ok := c.lru.Get(id)
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *lruCache) Set(_ context.Context, p Product) {
	c.lru.Add(p.ID, p)
}

func (c *lruCache) Invalidate(_ context.Context, ids ...uint) {
	for _, id := range ids {
		c.lru.Remove(id)
	}
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func cacheKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *redisCache) Get(ctx context.Context, id uint) (*Product, bool) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.FromCtx(ctx).Warn("product cache get failed", zap.Uint("product_id", id), zap.Error(err))
		}
		return nil, false
	}

	var p Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *redisCache) Set(ctx context.Context, p Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(p.ID), raw, c.ttl).Err(); err != nil {
		logger.FromCtx(ctx).Warn("product cache set failed", zap.Uint("product_id", p.ID), zap.Error(err))
	}
}

func (c *redisCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.FromCtx(ctx).Warn("product cache invalidate failed", zap.Uints("product_ids", ids), zap.Error(err))
	}
}

// GuardedCache drops fills that raced with an invalidation: a detail read
// from the store before a stock change committed must not be cached after
// that change invalidated it.
type GuardedCache struct {
	Cache

	mu    sync.Mutex
	epoch uint64
}

func NewGuardedCache(c Cache) *GuardedCache {
	return &GuardedCache{Cache: c}
}

// Epoch is taken before reading from the store and handed to SetIfCurrent.
func (g *GuardedCache) Epoch() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch
}

// SetIfCurrent stores p only if nothing was invalidated since epoch.
func (g *GuardedCache) SetIfCurrent(ctx context.Context, p Product, epoch uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.epoch != epoch {
		return false
	}
	g.Cache.Set(ctx, p)
	return true
}

func (g *GuardedCache) Invalidate(ctx context.Context, ids ...uint) {
	if len(ids) == 0 {
		return
	}
	g.mu.Lock()
	g.epoch++
	g.mu.Unlock()

	g.Cache.Invalidate(ctx, ids...)
}

type noopCache struct{}

func NewNoopCache() Cache { return noopCache{} }

func (noopCache) Get(context.Context, uint) (*Product, bool) { return nil, false }
func (noopCache) Set(context.Context, Product)               {}
func (noopCache) Invalidate(context.Context, ...uint)        {}
