package leader

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrLockHeld is returned when another migrator already holds the lock.
var ErrLockHeld = errors.New("migration lock held by another instance")

// Lock is a redis advisory lock guaranteeing a single running migrator per
// ledger. The driver's resumability contract (min legacy id means everything
// below is migrated) assumes exactly one writer.
type Lock struct {
	redis redis.Cmdable
	key   string
	token string
	ttl   time.Duration
}

// New creates a lock with a unique holder token.
func New(client redis.Cmdable, key string, ttl time.Duration) *Lock {
	return &Lock{
		redis: client,
		key:   key,
		token: uuid.NewString(),
		ttl:   ttl,
	}
}

// Acquire takes the lock, failing with ErrLockHeld when another instance
// owns it.
func (l *Lock) Acquire(ctx context.Context) error {
	ok, err := l.redis.SetNX(ctx, l.key, l.token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	return nil
}

// Keep refreshes the lock TTL in the background until the returned stop
// function is called. A lost lock is logged, not fatal: the TTL only lapses
// when this process stalls longer than the TTL.
func (l *Lock) Keep(ctx context.Context) func() {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(l.ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stopCh:
				return
			case <-ticker.C:
				ok, err := l.redis.Expire(ctx, l.key, l.ttl).Result()
				if err != nil {
					zap.L().Warn("migration lock refresh failed", zap.Error(err))
				} else if !ok {
					zap.L().Warn("migration lock expired while running")
				}
			}
		}
	}()
	return func() { close(stopCh) }
}

// Release drops the lock if this instance still holds it. The get-then-del
// pair is not atomic; on release we only risk deleting a lock we just lost,
// which the TTL already invalidated.
func (l *Lock) Release(ctx context.Context) {
	val, err := l.redis.Get(ctx, l.key).Result()
	if err != nil || val != l.token {
		return
	}
	if err := l.redis.Del(ctx, l.key).Err(); err != nil {
		zap.L().Warn("migration lock release failed", zap.Error(err))
	}
}
