package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/mebelpos/mebelpos/internal/pos/settlement"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, time.Hour)
}

func TestStoreLoadReturnsEmptyCart(t *testing.T) {
	store := newTestStore(t)
	c, err := store.Load(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, c.ID)
	require.Equal(t, int64(7), c.CashierID)
	require.Empty(t, c.Lines)
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, c.AddProduct(snapshot(1, 1000, 50), 5))
	_, err = c.ApplyLineSplit(1, settlement.Split{Cash: 5000, Click: 750})
	require.NoError(t, err)
	customer := int64(42)
	c.CustomerID = &customer
	require.NoError(t, store.Save(ctx, c))

	loaded, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, c.ID, loaded.ID)
	require.Len(t, loaded.Lines, 1)
	require.Equal(t, c.Total(), loaded.Total())
	require.NotNil(t, loaded.CustomerID)
	require.Equal(t, int64(42), *loaded.CustomerID)
	require.NotNil(t, loaded.Lines[0].Split)
	require.Equal(t, int64(750), loaded.Lines[0].Split.Click)
}

func TestStoreDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	c, _ := store.Load(ctx, 7)
	require.NoError(t, c.AddProduct(snapshot(1, 1000, 50), 1))
	require.NoError(t, store.Save(ctx, c))
	require.NoError(t, store.Delete(ctx, 7))

	fresh, err := store.Load(ctx, 7)
	require.NoError(t, err)
	require.Empty(t, fresh.Lines)
	require.NotEqual(t, c.ID, fresh.ID)
}
