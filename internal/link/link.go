package link

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// drainBufferSize bounds each read of the background drain loop.
const drainBufferSize = 256

// Link is one open TCP connection to the robot. Writes are safe to call
// from multiple goroutines but are not serialized against each other; callers
// that must not interleave frames hold their own lock.
type Link struct {
	conn     net.Conn
	endpoint Endpoint
	opts     Options

	dead      atomic.Bool
	closeOnce sync.Once
	drained   chan struct{}
}

// Dial connects to ep, bounded by opts.ConnectTimeout and ctx, and tunes the
// socket. Failures are returned as *DialError.
func Dial(ctx context.Context, ep Endpoint, opts Options) (*Link, error) {
	dialer := net.Dialer{
		Timeout:   opts.ConnectTimeout,
		KeepAlive: opts.KeepAlive,
	}

	conn, err := dialer.DialContext(ctx, "tcp", ep.String())
	if err != nil {
		return nil, categorizeDialError(ep, err)
	}

	if tcp, ok := conn.(*net.TCPConn); ok {
		tune(tcp, opts)
	}

	l := &Link{
		conn:     conn,
		endpoint: ep,
		opts:     opts,
		drained:  make(chan struct{}),
	}

	if opts.Drain {
		go l.drain()
	} else {
		close(l.drained)
	}

	return l, nil
}

// tune applies the low-latency socket settings. Errors are ignored: a socket
// that rejects a buffer size still works.
func tune(tcp *net.TCPConn, opts Options) {
	_ = tcp.SetNoDelay(true)
	if opts.BufferSize > 0 {
		_ = tcp.SetReadBuffer(opts.BufferSize)
		_ = tcp.SetWriteBuffer(opts.BufferSize)
	}
	if opts.KeepAlive >= 0 {
		_ = tcp.SetKeepAlive(true)
		if opts.KeepAlive > 0 {
			_ = tcp.SetKeepAlivePeriod(opts.KeepAlive)
		}
	}
}

// Endpoint returns the address this link is connected to.
func (l *Link) Endpoint() Endpoint {
	return l.endpoint
}

// Alive reports whether the link is still usable. It turns false after Close,
// after a failed write, or once the drain reader sees the peer hang up.
func (l *Link) Alive() bool {
	return !l.dead.Load()
}

// Write sends b in full under the write timeout. A timed-out write leaves the
// link usable; any other failure marks it dead.
func (l *Link) Write(b []byte) error {
	if l.dead.Load() {
		return ErrClosed
	}

	if l.opts.WriteTimeout > 0 {
		_ = l.conn.SetWriteDeadline(time.Now().Add(l.opts.WriteTimeout))
	}

	if _, err := l.conn.Write(b); err != nil {
		if !errors.Is(err, os.ErrDeadlineExceeded) {
			l.dead.Store(true)
		}
		return err
	}
	return nil
}

// Read reads a single reply chunk under the read timeout. It is meant for
// links dialed without Drain.
func (l *Link) Read(p []byte) (int, error) {
	if l.dead.Load() {
		return 0, ErrClosed
	}

	if l.opts.ReadTimeout > 0 {
		_ = l.conn.SetReadDeadline(time.Now().Add(l.opts.ReadTimeout))
	}
	return l.conn.Read(p)
}

// Close closes the socket and waits for the drain reader to exit. It is safe
// to call more than once; close errors are returned only from the first call.
func (l *Link) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.dead.Store(true)
		err = l.conn.Close()
	})
	<-l.drained
	return err
}

// Done is closed when the drain reader has exited. For links dialed without
// Drain it is closed from the start.
func (l *Link) Done() <-chan struct{} {
	return l.drained
}

// drain discards inbound bytes until the peer hangs up or the link is closed.
func (l *Link) drain() {
	defer close(l.drained)

	buf := make([]byte, drainBufferSize)
	for {
		if l.opts.ReadTimeout > 0 {
			_ = l.conn.SetReadDeadline(time.Now().Add(l.opts.ReadTimeout))
		}

		_, err := l.conn.Read(buf)
		if err == nil {
			continue
		}
		if errors.Is(err, os.ErrDeadlineExceeded) && !l.dead.Load() {
			continue
		}
		// EOF, reset, or closed by us.
		l.dead.Store(true)
		return
	}
}
