// Package redis caches AI-path answers so repeated free-form questions do
// not burn model quota. The cache is optional: a nil *Client is a no-op.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/edu-agent/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// SetAnswer stores a rendered answer under the hash of (admin, query).
func (c *Client) SetAnswer(ctx context.Context, key, answer string, ttl time.Duration) error {
	if c == nil {
		return nil
	}
	if err := c.client.Set(ctx, "answer:"+key, answer, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set answer cache: %w", err)
	}
	logger.Debug("Answer cached", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

// GetAnswer returns the cached answer and whether the key was present.
func (c *Client) GetAnswer(ctx context.Context, key string) (string, bool, error) {
	if c == nil {
		return "", false, nil
	}
	answer, err := c.client.Get(ctx, "answer:"+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get answer cache: %w", err)
	}
	logger.Debug("Answer cache hit", zap.String("key", key))
	return answer, true, nil
}
