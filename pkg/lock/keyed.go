package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAcquireTimeout is returned when the lock could not be taken within the
// caller's wait budget.
var ErrAcquireTimeout = errors.New("lock acquire timed out")

type entry struct {
	ch   chan struct{}
	refs int
}

// Keyed provides one exclusive lock per string key. All mutations of a single
// showtime go through the same key, so they are totally ordered by acquisition
// order; independent keys never contend.
type Keyed struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func NewKeyed() *Keyed {
	return &Keyed{entries: make(map[string]*entry)}
}

// Acquire blocks until the lock for key is held, the wait duration elapses, or
// ctx is done. On success it returns a release function that must be called
// exactly once. On timeout it returns ErrAcquireTimeout and no partial state.
func (k *Keyed) Acquire(ctx context.Context, key string, wait time.Duration) (func(), error) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		return func() {
			<-e.ch
			k.put(key, e)
		}, nil
	case <-timer.C:
		k.put(key, e)
		return nil, ErrAcquireTimeout
	case <-ctx.Done():
		k.put(key, e)
		return nil, ctx.Err()
	}
}

// put drops one reference and removes the entry once nobody holds or waits on it.
func (k *Keyed) put(key string, e *entry) {
	k.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(k.entries, key)
	}
	k.mu.Unlock()
}
