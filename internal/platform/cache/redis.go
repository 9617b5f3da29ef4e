// Package cache opens the Redis connection shared by sessions and the job queue.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// New creates a Redis client and fails when the server does not answer.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("platform/cache: ping %s: %w", addr, err)
	}

	return client, nil
}

// Connect returns a client even when Redis is not reachable yet, logging a
// warning instead. go-redis reconnects lazily on the next command.
func Connect(ctx context.Context, addr string, logger *slog.Logger) *redis.Client {
	client, err := New(ctx, addr)
	if err == nil {
		return client
	}
	logger.Warn("redis ping", slog.String("addr", addr), slog.Any("error", err))
	return redis.NewClient(&redis.Options{Addr: addr})
}

// Close releases the client, logging failures.
func Close(client *redis.Client, logger *slog.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("redis close", slog.Any("error", err))
	}
}
