package lock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedLocksDoNotBlock(t *testing.T) {
	l := New()
	ctx := context.Background()

	r1, err := l.RLock(ctx, "/a")
	require.NoError(t, err)
	r2, err := l.RLock(ctx, "/a")
	require.NoError(t, err)

	r1()
	r2()
	assert.Equal(t, 0, l.Len())
}

func TestExclusiveLockBlocksUntilRelease(t *testing.T) {
	l := New()
	ctx := context.Background()

	release, err := l.Lock(ctx, "/a")
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := l.RLock(ctx, "/a")
		if err == nil {
			close(acquired)
			r()
		}
	}()

	select {
	case <-acquired:
		t.Fatal("shared lock acquired while exclusive lock held")
	case <-time.After(50 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("shared lock not acquired after release")
	}
}

func TestDifferentKeysAreIndependent(t *testing.T) {
	l := New()
	ctx := context.Background()

	ra, err := l.Lock(ctx, "/a")
	require.NoError(t, err)
	defer ra()

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	rb, err := l.Lock(ctx, "/b")
	require.NoError(t, err)
	rb()
}

func TestAcquireHonoursCancellation(t *testing.T) {
	l := New()

	release, err := l.Lock(context.Background(), "/a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Lock(ctx, "/a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	assert.Equal(t, 0, l.Len())
}

func TestReleaseIsIdempotent(t *testing.T) {
	l := New()

	release, err := l.Lock(context.Background(), "/a")
	require.NoError(t, err)
	release()
	release()

	again, err := l.Lock(context.Background(), "/a")
	require.NoError(t, err)
	again()
}

func TestExclusiveLockSerializesWriters(t *testing.T) {
	l := New()
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		overlap bool
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "/shared")
			if err != nil {
				return
			}
			defer release()

			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.False(t, overlap)
	assert.Equal(t, 0, l.Len())
}
