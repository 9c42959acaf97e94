package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"vpcs-backend/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_SerializesSameKey(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Obtain(ctx, "tanker:acme:AP09")
			if !assert.NoError(t, err) {
				return
			}
			defer release()

			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			inside--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	assert.Empty(t, l.slots)
}

func TestMemoryLocker_DifferentKeysDoNotBlock(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	r1, err := l.Obtain(ctx, "a")
	require.NoError(t, err)
	defer r1()

	r2, err := l.Obtain(ctx, "b")
	require.NoError(t, err)
	r2()
}

func TestMemoryLocker_ContextCancelled(t *testing.T) {
	l := NewMemoryLocker()

	release, err := l.Obtain(context.Background(), "nick:acme")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = l.Obtain(ctx, "nick:acme")
	assert.ErrorIs(t, err, domain.ErrLockNotHeld)

	release()
	release() // second call is a no-op

	again, err := l.Obtain(context.Background(), "nick:acme")
	require.NoError(t, err)
	again()
}
