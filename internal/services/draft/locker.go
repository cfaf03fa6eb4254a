// File: internal/services/draft/locker.go
package draft

import (
	"context"
	"sync"
)

// ThreadLocks serializes work on a single chat within this process.
// Entries are reference counted and dropped when the last holder leaves.
type ThreadLocks struct {
	mu      sync.Mutex
	entries map[uint]*threadLock
}

type threadLock struct {
	sem  chan struct{}
	refs int
}

func NewThreadLocks() *ThreadLocks {
	return &ThreadLocks{entries: make(map[uint]*threadLock)}
}

// Lock blocks until the chat is free or ctx ends. The returned func
// releases the lock and must be called exactly once.
func (l *ThreadLocks) Lock(ctx context.Context, chatID uint) (func(), error) {
	l.mu.Lock()
	entry, ok := l.entries[chatID]
	if !ok {
		entry = &threadLock{sem: make(chan struct{}, 1)}
		l.entries[chatID] = entry
	}
	entry.refs++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
		return func() {
			<-entry.sem
			l.release(chatID, entry)
		}, nil
	case <-ctx.Done():
		l.release(chatID, entry)
		return nil, ctx.Err()
	}
}

func (l *ThreadLocks) release(chatID uint, entry *threadLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, chatID)
	}
}

// size reports the number of live entries.
func (l *ThreadLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
