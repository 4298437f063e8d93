// Package cache keeps product details in redis between reads.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"bistro/internal/models"
)

// Config holds the redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Connect opens a redis client and checks it with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// ProductCache stores products as JSON under product:<id>. Redis failures are logged and
// treated as misses so the database stays the source of truth.
type ProductCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewProductCache(rdb *redis.Client, ttl time.Duration, logger zerolog.Logger) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ttl, logger: logger.With().Str("component", "cache").Logger()}
}

// Key returns the redis key of a product.
func Key(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) Get(ctx context.Context, id uint) (*models.Product, bool) {
	data, err := c.rdb.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn().Err(err).Uint("id", id).Msg("cache read failed")
		}
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn().Err(err).Uint("id", id).Msg("discarding undecodable cache entry")
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, Key(product.ID), data, c.ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("id", product.ID).Msg("cache write failed")
	}
}

func (c *ProductCache) Delete(ctx context.Context, id uint) {
	if err := c.rdb.Del(ctx, Key(id)).Err(); err != nil {
		c.logger.Warn().Err(err).Uint("id", id).Msg("cache invalidation failed")
	}
}
