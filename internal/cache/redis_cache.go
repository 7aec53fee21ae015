package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minutes-archive/search-service/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// RedisSearchCache stores serialized result envelopes in Redis. A cached
// envelope serializes identically to a fresh one, including the raw
// committee_names passthrough.
type RedisSearchCache struct {
	client *redis.Client
	prefix string
}

// RedisOptions holds the connection settings for the cache.
type RedisOptions struct {
	Address  string
	Password string
	DB       int
}

// NewRedisSearchCache creates a new Redis-based search cache.
func NewRedisSearchCache(opts RedisOptions, prefix string) (*RedisSearchCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Address,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisSearchCache{
		client: client,
		prefix: prefix,
	}, nil
}

func (c *RedisSearchCache) Get(ctx context.Context, key string) (*domain.ResultEnvelope, error) {
	data, err := c.client.Get(ctx, c.prefix+":"+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var result domain.ResultEnvelope
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return &result, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, key string, result *domain.ResultEnvelope, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if err := c.client.Set(ctx, c.prefix+":"+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}

	return nil
}

func (c *RedisSearchCache) Close() error {
	return c.client.Close()
}
