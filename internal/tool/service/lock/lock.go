// Package lock provides context-aware reader/writer locks keyed by path.
package lock

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// maxReaders is the semaphore capacity; a writer takes all of it.
const maxReaders = 1 << 20

// PathLocks hands out shared and exclusive locks per key. Entries are
// reference counted and removed once no holder or waiter remains.
type PathLocks struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// New creates an empty PathLocks.
func New() *PathLocks {
	return &PathLocks{entries: make(map[string]*entry)}
}

// RLock acquires a shared lock on key. The returned release func must be
// called exactly once; extra calls are no-ops.
func (l *PathLocks) RLock(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, 1)
}

// Lock acquires an exclusive lock on key.
func (l *PathLocks) Lock(ctx context.Context, key string) (func(), error) {
	return l.acquire(ctx, key, maxReaders)
}

// Len returns the number of keys currently held or awaited.
func (l *PathLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *PathLocks) acquire(ctx context.Context, key string, weight int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(maxReaders)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	if err := e.sem.Acquire(ctx, weight); err != nil {
		l.unref(key, e)
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.sem.Release(weight)
			l.unref(key, e)
		})
	}, nil
}

func (l *PathLocks) unref(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}
