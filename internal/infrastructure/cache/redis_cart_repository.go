package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/smartstore/backend/internal/domain/cart"
	"github.com/smartstore/backend/internal/infrastructure/config"
)

// cartTTL bounds abandoned-cart retention in redis
const cartTTL = 30 * 24 * time.Hour

// RedisCartRepository implements cart.Repository on redis. Each cart is one
// JSON value keyed by user, replaced wholesale, which is also what the
// relational backing does.
type RedisCartRepository struct {
	client *redis.Client
}

// NewRedisCartRepository connects to redis and verifies the connection
func NewRedisCartRepository(cfg config.RedisConfig) (*RedisCartRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisCartRepository{client: client}, nil
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// GetCart returns a user's cart entries
func (r *RedisCartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Entry, error) {
	raw, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []cart.Entry{}, nil
		}
		return nil, err
	}

	var entries []cart.Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("corrupt cart payload for %s: %w", userID, err)
	}
	return entries, nil
}

// ReplaceCart replaces the user's entry set wholesale
func (r *RedisCartRepository) ReplaceCart(ctx context.Context, userID uuid.UUID, entries []cart.Entry) error {
	if len(entries) == 0 {
		return r.ClearCart(ctx, userID)
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(userID), raw, cartTTL).Err()
}

// ClearCart removes the user's cart
func (r *RedisCartRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, cartKey(userID)).Err()
}

// Close releases the redis connection
func (r *RedisCartRepository) Close() error {
	return r.client.Close()
}
