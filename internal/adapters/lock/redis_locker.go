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

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockRetry = 50 * time.Millisecond
	lockKeyPrefix    = "lock:account:"
)

// ErrLockNotObtained is returned when the lock is still held by someone else once ctx ends.
var ErrLockNotObtained = errors.New("could not obtain account lock")

// RedisLocker serializes per-account work across instances with a redis lock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  time.Duration
	logger *slog.Logger
}

// NewRedisLocker wraps rdb. A zero ttl uses 30s.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  defaultLockRetry,
		logger: logger,
	}
}

// Lock retries until the key is obtained or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, accountID string) (func(), error) {
	key := lockKeyPrefix + accountID
	lock, err := l.client.Obtain(ctx, key, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.retry),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrLockNotObtained, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtain lock %s: %w", key, err)
	}

	return func() {
		// Release must succeed even when the caller's context was cancelled.
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.Warn("Failed to release account lock", slog.String("key", key), slog.String("error", err.Error()))
		}
	}, nil
}
