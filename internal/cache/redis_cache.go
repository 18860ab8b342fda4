package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"invopos/backend/internal/domain"
)

// RedisInvoiceCache shares last-invoice state between server instances so a
// terminal can reprint its previous bill regardless of which node served it.
type RedisInvoiceCache struct {
	client *redis.Client
}

func NewRedisInvoiceCache(addr string, password string, db int) *RedisInvoiceCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisInvoiceCache{client: client}
}

func (c *RedisInvoiceCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisInvoiceCache) Close() error {
	return c.client.Close()
}

func (c *RedisInvoiceCache) Get(ctx context.Context, terminal string) (*domain.RenderedInvoice, bool, error) {
	val, err := c.client.Get(ctx, cacheKey(terminal)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var inv domain.RenderedInvoice
	if err := json.Unmarshal([]byte(val), &inv); err != nil {
		return nil, false, err
	}
	return &inv, true, nil
}

func (c *RedisInvoiceCache) Set(ctx context.Context, terminal string, value *domain.RenderedInvoice, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(terminal), payload, ttl).Err()
}

func cacheKey(terminal string) string {
	return "invoice:last:" + terminal
}
