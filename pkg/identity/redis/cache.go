// Package redis implements identity.TokenCache on Redis, the backend the
// external session service writes tokens to.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/marmos91/cabinet/pkg/identity"
	"github.com/redis/go-redis/v9"
)

// Session tokens are stored by the external session service under
// "auth_<token>" with the user id as the value and a TTL enforcing
// expiry. This cache only reads them.
const tokenKeyPrefix = "auth_"

// TokenCache implements identity.TokenCache on a Redis client.
type TokenCache struct {
	client *redis.Client
}

// Config configures the Redis connection.
type Config struct {
	// Addr is the host:port of the Redis server.
	Addr string `mapstructure:"addr"`

	// DB is the Redis database number.
	DB int `mapstructure:"db"`

	// DialTimeout bounds connection establishment.
	DialTimeout time.Duration `mapstructure:"dial_timeout"`

	// PoolSize is the maximum number of socket connections.
	PoolSize int `mapstructure:"pool_size"`
}

// NewTokenCache connects to Redis and verifies the connection with a ping.
func NewTokenCache(ctx context.Context, config Config) (*TokenCache, error) {
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.PoolSize <= 0 {
		config.PoolSize = 10
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Addr,
		DB:          config.DB,
		DialTimeout: config.DialTimeout,
		PoolSize:    config.PoolSize,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.Addr, err)
	}

	return &TokenCache{client: client}, nil
}

// Lookup resolves a session token to a user id.
func (c *TokenCache) Lookup(ctx context.Context, token string) (string, error) {
	userID, err := c.client.Get(ctx, tokenKeyPrefix+token).Result()
	if err == redis.Nil {
		return "", identity.ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up token: %w", err)
	}
	return userID, nil
}

// Ping reports whether Redis is reachable.
func (c *TokenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *TokenCache) Close() error {
	return c.client.Close()
}
