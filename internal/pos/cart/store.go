package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Store persists the active cart per cashier in Redis. The cart only exists
// between an explicit Load and Save; nothing reads it ambiently.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore constructs a Store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

// Load fetches the cashier's cart, creating an empty one when none exists.
func (s *Store) Load(ctx context.Context, cashierID int64) (*Cart, error) {
	payload, err := s.client.Get(ctx, s.key(cashierID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return New(uuid.NewString(), cashierID), nil
		}
		return nil, fmt.Errorf("cart: load: %w", err)
	}
	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("cart: decode: %w", err)
	}
	return &c, nil
}

// Save persists the cart, refreshing its TTL.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(c.CashierID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart: save: %w", err)
	}
	return nil
}

// Delete removes the cashier's cart.
func (s *Store) Delete(ctx context.Context, cashierID int64) error {
	if err := s.client.Del(ctx, s.key(cashierID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cart: delete: %w", err)
	}
	return nil
}

func (s *Store) key(cashierID int64) string {
	return fmt.Sprintf("mebelpos:cart:%d", cashierID)
}
