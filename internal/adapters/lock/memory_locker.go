// Package lock provides AccountLocker implementations.
package lock

import (
	"context"
	"sync"
)

// MemoryLocker serializes per-account work inside a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch      chan struct{}
	waiters int
}

// NewMemoryLocker returns an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[string]*keyLock)}
}

// Lock blocks until accountID is free or ctx is done.
func (l *MemoryLocker) Lock(ctx context.Context, accountID string) (func(), error) {
	l.mu.Lock()
	k, ok := l.locks[accountID]
	if !ok {
		k = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[accountID] = k
	}
	k.waiters++
	l.mu.Unlock()

	select {
	case k.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(accountID, k, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(accountID, k, true) })
	}, nil
}

func (l *MemoryLocker) release(accountID string, k *keyLock, held bool) {
	if held {
		<-k.ch
	}
	l.mu.Lock()
	k.waiters--
	if k.waiters == 0 {
		delete(l.locks, accountID)
	}
	l.mu.Unlock()
}
