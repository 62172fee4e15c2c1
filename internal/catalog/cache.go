package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through Redis mirror of product lookups. TTLs are short:
// the database stays the source of truth for stock, the cache only absorbs
// repeated terminal lookups between writes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache constructs a Cache.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetByCode returns the cached product for a code, or ErrCacheMiss.
func (c *Cache) GetByCode(ctx context.Context, code string) (*Product, error) {
	payload, err := c.client.Get(ctx, c.codeKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var p Product
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetByCode stores a product under its code.
func (c *Cache) SetByCode(ctx context.Context, p *Product) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.codeKey(p.Code), payload, c.ttl).Err()
}

// InvalidateCode drops the cached entry for a code.
func (c *Cache) InvalidateCode(ctx context.Context, code string) {
	_ = c.client.Del(ctx, c.codeKey(code)).Err()
}

// Search returns cached search results, loading them via fn on a miss.
// Concurrent misses for the same term collapse into a single load.
func (c *Cache) Search(ctx context.Context, term string, fn func(context.Context) ([]Product, error)) ([]Product, error) {
	key := c.searchKey(term)
	if payload, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var products []Product
		if err := json.Unmarshal(payload, &products); err == nil {
			return products, nil
		}
	}

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		products, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if payload, err := json.Marshal(products); err == nil {
			_ = c.client.Set(ctx, key, payload, c.ttl).Err()
		}
		return products, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Product), nil
}

// ErrCacheMiss indicates the key was not cached.
var ErrCacheMiss = errors.New("catalog: cache miss")

func (c *Cache) codeKey(code string) string {
	return fmt.Sprintf("mebelpos:product:code:%s", code)
}

func (c *Cache) searchKey(term string) string {
	return fmt.Sprintf("mebelpos:product:search:%s", term)
}
