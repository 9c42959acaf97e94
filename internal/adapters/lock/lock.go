// Package lock serializes read-then-write checks across requests and instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vpcs-backend/internal/config"
	"vpcs-backend/internal/core/domain"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vpcs:lock:"

// RedisLocker obtains locks shared by every instance through redis
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	retry  redislock.RetryStrategy
}

// NewRedisLocker creates a redis-backed locker
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    ttl,
		retry:  redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 60),
	}
}

// Obtain blocks until the key is locked, the retries run out or ctx ends
func (l *RedisLocker) Obtain(ctx context.Context, key string) (func(), error) {
	lk, err := l.client.Obtain(ctx, keyPrefix+key, l.ttl, &redislock.Options{RetryStrategy: l.retry})
	if errors.Is(err, redislock.ErrNotObtained) {
		config.LogError(config.GetLogger(), "lock", "Obtain", "Could not obtain lock", key, err)
		return nil, fmt.Errorf("%w: %s", domain.ErrLockNotHeld, key)
	} else if err != nil {
		config.LogError(config.GetLogger(), "lock", "Obtain", "Error obtaining lock", key, err)
		return nil, err
	}

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lk.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			config.LogError(config.GetLogger(), "lock", "Release", "Error releasing lock", key, err)
		}
	}, nil
}

// MemoryLocker is an in-process keyed mutex for single-instance deployments
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

// NewMemoryLocker creates an in-process locker
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*slot)}
}

// Obtain blocks until the key is free or ctx ends
func (l *MemoryLocker) Obtain(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		l.drop(key, s)
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrLockNotHeld, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
	}, nil
}

func (l *MemoryLocker) drop(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}
