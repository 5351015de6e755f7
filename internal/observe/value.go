// Package observe provides a latest-value cell that fans out every update to
// any number of subscribers.
package observe

import (
	"context"
	"sync"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

// Value holds the current value of T and broadcasts each Set to subscribers.
// New subscribers immediately receive the current value.
//
// Publishing never blocks. When a subscriber falls behind and its buffer is
// full, its oldest pending update is discarded so the newest one always lands;
// the updates a subscriber does see arrive in publication order.
type Value[T any] struct {
	mu      sync.RWMutex
	current T
	subs    map[chan T]struct{}
	buffer  int
}

// NewValue creates a cell holding initial.
func NewValue[T any](initial T) *Value[T] {
	return &Value[T]{
		current: initial,
		subs:    make(map[chan T]struct{}),
		buffer:  DefaultBuffer,
	}
}

// Get returns the current value.
func (v *Value[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.current
}

// Set replaces the current value and publishes it.
func (v *Value[T]) Set(val T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.current = val
	for ch := range v.subs {
		offer(ch, val)
	}
}

// Subscribe returns a channel that receives the current value followed by
// every subsequent update. The channel is closed once ctx is done.
func (v *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, v.buffer)

	v.mu.Lock()
	v.subs[ch] = struct{}{}
	ch <- v.current
	v.mu.Unlock()

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.subs, ch)
		close(ch)
		v.mu.Unlock()
	}()

	return ch
}

// Subscribers reports how many subscriptions are active.
func (v *Value[T]) Subscribers() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.subs)
}

// offer delivers val without blocking, evicting the oldest entry if needed.
// Callers must hold the write lock.
func offer[T any](ch chan T, val T) {
	for {
		select {
		case ch <- val:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
