package observe

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestValue_GetSet(t *testing.T) {
	v := NewValue("idle")
	assert.Equal(t, "idle", v.Get())

	v.Set("busy")
	assert.Equal(t, "busy", v.Get())
}

func TestValue_SubscribeReplaysCurrent(t *testing.T) {
	v := NewValue(1)
	v.Set(2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	assert.Equal(t, 2, recv(t, ch))

	v.Set(3)
	assert.Equal(t, 3, recv(t, ch))
}

func TestValue_FanOut(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := v.Subscribe(ctx)
	b := v.Subscribe(ctx)
	recv(t, a)
	recv(t, b)

	v.Set(7)
	assert.Equal(t, 7, recv(t, a))
	assert.Equal(t, 7, recv(t, b))
}

func TestValue_PreservesOrder(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	recv(t, ch)

	for i := 1; i <= 5; i++ {
		v.Set(i)
	}
	for i := 1; i <= 5; i++ {
		assert.Equal(t, i, recv(t, ch))
	}
}

func TestValue_SlowSubscriberKeepsNewest(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	for i := 1; i <= DefaultBuffer*3; i++ {
		v.Set(i)
	}

	var last, prev int
	for i := 0; i < DefaultBuffer; i++ {
		last = recv(t, ch)
		assert.Greater(t, last, prev)
		prev = last
	}
	assert.Equal(t, DefaultBuffer*3, last)
}

func TestValue_CancelClosesChannel(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())

	ch := v.Subscribe(ctx)
	recv(t, ch)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, v.Subscribers())

	// Publishing after unsubscribe must not panic.
	v.Set(1)
}

func TestValue_ConcurrentSetters(t *testing.T) {
	v := NewValue(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = v.Subscribe(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				v.Set(n*1000 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, v.Subscribers())
}
