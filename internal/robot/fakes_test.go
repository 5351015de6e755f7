package robot

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
	"github.com/stretchr/testify/require"
)

var errWrite = errors.New("write failed")

// fakeConn records writes synchronously so tests can reason about exactly
// what reached the socket and when.
type fakeConn struct {
	mu       sync.Mutex
	writes   []string
	attempts int
	closed   bool
	dead     bool

	// writeHook, when set, decides the outcome of each write attempt.
	writeHook func(attempt int, b []byte) error

	done     chan struct{}
	doneOnce sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{done: make(chan struct{})}
}

func (c *fakeConn) Write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.dead {
		return link.ErrClosed
	}
	c.attempts++
	if c.writeHook != nil {
		if err := c.writeHook(c.attempts, b); err != nil {
			return err
		}
	}
	c.writes = append(c.writes, string(b))
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) Alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && !c.dead
}

func (c *fakeConn) Done() <-chan struct{} {
	return c.done
}

// kill marks the link unusable without signalling Done.
func (c *fakeConn) kill() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dead = true
}

// hangup simulates the drain reader seeing EOF.
func (c *fakeConn) hangup() {
	c.kill()
	c.doneOnce.Do(func() { close(c.done) })
}

func (c *fakeConn) setWriteHook(h func(attempt int, b []byte) error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeHook = h
}

func (c *fakeConn) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.writes))
	copy(out, c.writes)
	return out
}

func (c *fakeConn) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

func (c *fakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// countOf counts writes equal to s.
func (c *fakeConn) countOf(s string) int {
	n := 0
	for _, w := range c.Writes() {
		if w == s {
			n++
		}
	}
	return n
}

// quietOptions returns options with every background loop slowed down so a
// test only sees the activity it drives, and dialing handled by dial.
func quietOptions(dial DialFunc) Options {
	opts := DefaultOptions()
	opts.Logger = logger.Noop()
	opts.HealthInterval = time.Hour
	opts.BatteryPollInterval = time.Hour
	opts.Dial = dial
	opts.Query = func(ctx context.Context, ep link.Endpoint, _ telemetry.Options) (battery.Status, error) {
		return battery.Status{}, errors.New("no telemetry in this test")
	}
	return opts
}

// dialConns hands out the given conns in order.
func dialConns(conns ...*fakeConn) DialFunc {
	var next atomic.Int32
	return func(ctx context.Context, ep link.Endpoint, opts link.Options) (Conn, error) {
		i := int(next.Add(1)) - 1
		if i >= len(conns) {
			return nil, &link.DialError{Endpoint: ep, Reason: link.DialFailRefused}
		}
		return conns[i], nil
	}
}

// collect drains states from ch into a slice until the returned stop func is
// called.
func collect(t *testing.T, ch <-chan State) func() []State {
	t.Helper()
	var (
		mu     sync.Mutex
		states []State
		done   = make(chan struct{})
	)
	go func() {
		defer close(done)
		for s := range ch {
			mu.Lock()
			states = append(states, s)
			mu.Unlock()
		}
	}()
	return func() []State {
		mu.Lock()
		defer mu.Unlock()
		out := make([]State, len(states))
		copy(out, states)
		return out
	}
}

func kinds(states []State) []Kind {
	out := make([]Kind, len(states))
	for i, s := range states {
		out[i] = s.Kind
	}
	return out
}

func waitForKind(t *testing.T, m *Manager, k Kind) {
	t.Helper()
	require.Eventually(t, func() bool { return m.State().Kind == k },
		2*time.Second, 2*time.Millisecond, "state never became %s (is %s)", k, m.State())
}
