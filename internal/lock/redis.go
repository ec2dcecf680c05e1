package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// Redis is a Locker shared by every server instance pointing at the same
// Redis. Locks expire after TTL so a crashed holder cannot wedge a group.
type Redis struct {
	locker        *redislock.Client
	ttl           time.Duration
	retryInterval time.Duration
}

// NewRedis creates a Locker on top of an existing go-redis client.
func NewRedis(client redis.UniversalClient, ttl, retryInterval time.Duration) *Redis {
	return &Redis{
		locker:        redislock.New(client),
		ttl:           ttl,
		retryInterval: retryInterval,
	}
}

func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	// Retry until ctx is done. redislock stops retrying on its own once the
	// context deadline passes.
	opts := &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(r.retryInterval),
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.ttl)
		defer cancel()
	}

	l, err := r.locker.Obtain(ctx, key, r.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		// Release on a fresh context: the caller's may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			slog.Warn("Failed to release lock", "key", key, "error", err)
		}
	}, nil
}
