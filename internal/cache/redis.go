package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// GeocodeCache caches geocoding results in Redis. The cache is optional:
// when Redis is disabled or unreachable the service works without it.
type GeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

// NewGeocodeCache connects to Redis and verifies the connection.
// A connection failure is returned to the caller, which logs it once and
// continues without caching.
func NewGeocodeCache(addr, password string, db int, ttl time.Duration, logger *logrus.Logger) (*GeocodeCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &GeocodeCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// Key builds the cache key for a geocoding query
func (c *GeocodeCache) Key(query string, limit int) string {
	sum := sha1.Sum([]byte(query))
	return fmt.Sprintf("geocode:%s:%d", hex.EncodeToString(sum[:]), limit)
}

// Get returns the cached payload for a key, if present. Cache errors are
// logged and treated as misses.
func (c *GeocodeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Geocode cache read failed")
		}
		return nil, false
	}
	return data, true
}

// Set stores a payload under a key with the configured TTL. Failures are
// logged and ignored.
func (c *GeocodeCache) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.WithError(err).Warn("Geocode cache write failed")
	}
}

// Ping checks the Redis connection for health reporting
func (c *GeocodeCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection
func (c *GeocodeCache) Close() error {
	return c.client.Close()
}
