package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ilanmarket/listing-service/internal/config"
	"github.com/ilanmarket/listing-service/internal/listing/domain"
)

// ListingCache implements domain.ListingCache on Redis. Values are opaque
// bytes; serialization is the caller's concern.
type ListingCache struct {
	client *redis.Client
}

func NewListingCache(cfg *config.RedisConfig) (*ListingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &ListingCache{client: client}, nil
}

func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *ListingCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *ListingCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *ListingCache) Close() error {
	return c.client.Close()
}
