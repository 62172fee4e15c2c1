package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestCacheByCodeRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.GetByCode(ctx, "H-100")
	require.ErrorIs(t, err, ErrCacheMiss)

	p := &Product{ID: 1, Code: "H-100", Name: "Hinge", BasePrice: 1000, StockQuantity: 5, Unit: "pcs"}
	require.NoError(t, cache.SetByCode(ctx, p))

	got, err := cache.GetByCode(ctx, "H-100")
	require.NoError(t, err)
	require.Equal(t, p.Name, got.Name)
	require.Equal(t, p.BasePrice, got.BasePrice)

	cache.InvalidateCode(ctx, "H-100")
	_, err = cache.GetByCode(ctx, "H-100")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheSearchLoadsOnceAndCaches(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]Product, error) {
		calls++
		return []Product{{ID: 1, Code: "H-100"}}, nil
	}

	first, err := cache.Search(ctx, "hin", load)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := cache.Search(ctx, "hin", load)
	require.NoError(t, err)
	require.Len(t, second, 1)
	require.Equal(t, 1, calls, "second search must be served from cache")
}
