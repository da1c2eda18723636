package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pkgredis "github.com/codewithtechdev/storefront-backend/pkg/redis"
	"github.com/google/uuid"
)

// Store persists session carts. The cart never reaches the relational
// database; it lives in Redis under the session key until checkout
// snapshots it into an order.
type Store interface {
	Load(ctx context.Context, sessionID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, sessionID uuid.UUID) error
}

type redisCommands interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(sessionID string) string
}

type redisStore struct {
	client redisCommands
	ttl    time.Duration
}

// NewRedisStore builds a cart store over the shared Redis client.
func NewRedisStore(client redisCommands, ttl time.Duration) (Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

// Load returns the stored cart, or an empty cart when the key is absent.
func (s *redisStore) Load(ctx context.Context, sessionID uuid.UUID) (*Cart, error) {
	raw, err := s.client.Get(ctx, s.client.CartKey(sessionID.String()))
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("decoding cart: %w", err)
	}
	cart.SessionID = sessionID
	return &cart, nil
}

func (s *redisStore) Save(ctx context.Context, cart *Cart) error {
	if cart == nil || cart.SessionID == uuid.Nil {
		return fmt.Errorf("cart session id required")
	}
	cart.UpdatedAt = time.Now().UTC()

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encoding cart: %w", err)
	}
	if err := s.client.Set(ctx, s.client.CartKey(cart.SessionID.String()), raw, s.ttl); err != nil {
		return fmt.Errorf("saving cart: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.client.Del(ctx, s.client.CartKey(sessionID.String())); err != nil {
		return fmt.Errorf("deleting cart: %w", err)
	}
	return nil
}
