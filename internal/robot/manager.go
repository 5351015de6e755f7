package robot

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/command"
	hexerrors "github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/logger"
	"github.com/rileyhilliard/hexctl/internal/observe"
)

// ConnectionLost is the error message published when a live session fails.
const ConnectionLost = "Connection lost"

// session is one live connection and the goroutines serving it.
type session struct {
	id       string
	conn     Conn
	endpoint link.Endpoint
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	faulted atomic.Bool

	// sendMu serializes writes so commands and probes never interleave.
	sendMu   sync.Mutex
	lastCmd  command.Command
	lastSent time.Time
}

// Manager owns the robot connection. All methods are safe for concurrent use.
type Manager struct {
	opts Options
	log  logger.Logger

	state   *observe.Value[State]
	battery *observe.Value[*battery.Status]

	// lifecycle serializes connect and teardown; it is the only writer of sess.
	lifecycle sync.Mutex
	sess      atomic.Pointer[session]

	dispatchMu sync.Mutex
	dispatch   *dispatchLoop
}

// NewManager creates a disconnected manager.
func NewManager(opts Options) *Manager {
	opts = opts.withDefaults()
	return &Manager{
		opts:    opts,
		log:     opts.Logger,
		state:   observe.NewValue(Disconnected()),
		battery: observe.NewValue[*battery.Status](nil),
	}
}

// State returns the current connection state.
func (m *Manager) State() State {
	return m.state.Get()
}

// SubscribeState streams connection states, starting with the current one,
// until ctx is done.
func (m *Manager) SubscribeState(ctx context.Context) <-chan State {
	return m.state.Subscribe(ctx)
}

// Battery returns the last known battery status, or nil if none has been
// received yet.
func (m *Manager) Battery() *battery.Status {
	return m.battery.Get()
}

// SubscribeBattery streams battery updates, starting with the current value,
// until ctx is done.
func (m *Manager) SubscribeBattery(ctx context.Context) <-chan *battery.Status {
	return m.battery.Subscribe(ctx)
}

// Endpoint returns the endpoint of the live session.
func (m *Manager) Endpoint() (link.Endpoint, bool) {
	s := m.sess.Load()
	if s == nil {
		return link.Endpoint{}, false
	}
	return s.endpoint, true
}

// Connect opens a session to address:port, tearing down any existing one
// first. ctx bounds only the dial. On failure the manager is left in the
// Error state with a message describing the cause.
func (m *Manager) Connect(ctx context.Context, address string, port int) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.sess.Load() != nil {
		m.log.Info("Replacing existing connection")
		m.teardownLocked()
	}

	ep := link.Endpoint{Address: address, Port: port}

	if address == "" || net.ParseIP(address) == nil && !validHostname(address) {
		msg := fmt.Sprintf("Invalid address %q", address)
		m.state.Set(Failed(msg))
		return hexerrors.New(hexerrors.ErrConnect, msg, "Use an IPv4 address like 192.168.1.1")
	}
	if port < 1 || port > 65535 {
		msg := fmt.Sprintf("Invalid port %d", port)
		m.state.Set(Failed(msg))
		return hexerrors.New(hexerrors.ErrConnect, msg, "Ports range from 1 to 65535")
	}

	m.state.Set(Connecting())
	m.log.Info("Connecting to %s", ep)

	conn, err := m.opts.Dial(ctx, ep, m.opts.Link)
	if err != nil {
		msg := "Failed to connect: " + err.Error()
		var dialErr *link.DialError
		if errors.As(err, &dialErr) {
			msg = dialErr.Summary()
		}
		m.log.Error("Connect to %s failed: %v", ep, err)
		m.state.Set(Failed(msg))
		return hexerrors.WrapWithCode(err, hexerrors.ErrConnect, msg,
			"Check that the robot is powered on and reachable at "+ep.String())
	}

	id := uuid.NewString()
	sctx, cancel := context.WithCancel(context.Background())
	s := &session{
		id:       id,
		conn:     conn,
		endpoint: ep,
		log:      m.log.With("session", id),
		ctx:      sctx,
		cancel:   cancel,
	}

	m.sess.Store(s)
	m.state.Set(Connected(address, port))
	s.log.Info("Connected to %s", ep)

	s.wg.Add(3)
	go m.monitor(s)
	go m.poll(s)
	go m.watch(s)

	return nil
}

// Disconnect tears down the live session, if any, and leaves the manager
// Disconnected. Every goroutine of the old session has exited by the time
// Disconnected is published.
func (m *Manager) Disconnect() {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()
	m.teardownLocked()
}

// teardownLocked stops the live session and publishes Disconnected. Callers
// hold lifecycle.
func (m *Manager) teardownLocked() {
	if s := m.sess.Swap(nil); s != nil {
		m.stopSession(s)
	}
	if m.state.Get().Kind != KindDisconnected {
		m.state.Set(Disconnected())
	}
}

func (m *Manager) stopSession(s *session) {
	m.stopDispatch()
	s.cancel()
	s.wg.Wait()
	if err := s.conn.Close(); err != nil {
		s.log.Debug("Close: %v", err)
	}

	s.sendMu.Lock()
	s.lastCmd = ""
	s.lastSent = time.Time{}
	s.sendMu.Unlock()

	s.log.Info("Disconnected from %s", s.endpoint)
}

// fault reports that s is unusable. The first report schedules a teardown on
// its own goroutine so the caller, often one of the session's own loops, never
// waits on itself.
func (m *Manager) fault(s *session, reason string) {
	if !s.faulted.CompareAndSwap(false, true) {
		return
	}
	s.log.Warn("Link failure: %s", reason)
	go m.failSession(s)
}

func (m *Manager) failSession(s *session) {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	// A newer session or an explicit disconnect got here first.
	if !m.sess.CompareAndSwap(s, nil) {
		return
	}

	m.state.Set(Failed(ConnectionLost))
	m.stopSession(s)
	m.state.Set(Disconnected())
}

// watch tears the session down as soon as the link reports the peer gone.
func (m *Manager) watch(s *session) {
	defer s.wg.Done()
	select {
	case <-s.ctx.Done():
	case <-s.conn.Done():
		if s.ctx.Err() == nil {
			m.fault(s, "peer closed the connection")
		}
	}
}

// Send writes cmd on the live link, dropping a repeat of the last command sent
// less than MinCommandInterval ago. A write failure fails the session.
//
// Without a link Send is a logged no-op: nothing is written and the state is
// unchanged. The ErrLink error it returns is informational and callers may
// ignore it.
func (m *Manager) Send(cmd command.Command) error {
	s := m.sess.Load()
	if s == nil {
		m.log.Debug("Send %s: not connected", cmd)
		return errNotConnected()
	}
	return m.send(s, cmd)
}

func (m *Manager) send(s *session, cmd command.Command) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	now := m.opts.Now()
	if cmd == s.lastCmd && now.Sub(s.lastSent) < m.opts.MinCommandInterval {
		return nil
	}

	if err := s.conn.Write(cmd.Wire()); err != nil {
		m.fault(s, fmt.Sprintf("write %s: %v", cmd, err))
		return hexerrors.WrapWithCode(err, hexerrors.ErrLink,
			fmt.Sprintf("Couldn't send %s", cmd), "")
	}

	s.lastCmd = cmd
	s.lastSent = now
	s.log.Debug("Sent %s", cmd)
	return nil
}

// SendOnce sends a single command. It is meant for discrete actions such as
// STOP, STAND or a gait change.
func (m *Manager) SendOnce(cmd command.Command) error {
	if !cmd.Valid() {
		return hexerrors.NewUnknownCommand(string(cmd))
	}
	return m.Send(cmd)
}

// RefreshBattery queries battery status now and publishes the result.
func (m *Manager) RefreshBattery(ctx context.Context) (battery.Status, error) {
	s := m.sess.Load()
	if s == nil {
		return battery.Status{}, errNotConnected()
	}

	status, err := m.opts.Query(ctx, s.endpoint, m.opts.Telemetry)
	if err != nil {
		return battery.Status{}, err
	}
	if m.sess.Load() == s {
		m.battery.Set(&status)
	}
	return status, nil
}

func errNotConnected() error {
	return hexerrors.New(hexerrors.ErrLink, "Not connected to the robot",
		"Connect first with 'hexctl drive' or POST /connect")
}

// validHostname accepts names that may resolve to the robot, such as mDNS
// names. Anything with whitespace or a port is rejected.
func validHostname(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
		default:
			return false
		}
	}
	return true
}
