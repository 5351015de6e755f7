package robot

import (
	"context"
	"time"

	"github.com/rileyhilliard/hexctl/internal/command"
	hexerrors "github.com/rileyhilliard/hexctl/internal/errors"
)

// dispatchLoop is the repeating sender for a held command.
type dispatchLoop struct {
	cmd    command.Command
	cancel context.CancelFunc
	done   chan struct{}
}

// Press starts re-sending cmd every RepeatInterval until Release, a new Press,
// or the end of the session. Any loop already running is stopped first.
// Unless Connected it is a logged no-op that returns an informational ErrLink
// error, like Send.
func (m *Manager) Press(cmd command.Command) error {
	if !cmd.Valid() {
		return hexerrors.NewUnknownCommand(string(cmd))
	}

	s := m.sess.Load()
	if s == nil || !m.state.Get().IsConnected() {
		m.log.Debug("Press %s ignored: not connected", cmd)
		return errNotConnected()
	}

	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	m.stopDispatchLocked()

	ctx, cancel := context.WithCancel(s.ctx)
	d := &dispatchLoop{
		cmd:    cmd,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	m.dispatch = d

	go m.repeat(ctx, s, d)
	return nil
}

// Release stops the held command. When it returns, the loop has exited and
// will send nothing further. No STOP is sent.
func (m *Manager) Release() {
	m.stopDispatch()
}

// Active returns the command currently being held, if any.
func (m *Manager) Active() (command.Command, bool) {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()

	if m.dispatch == nil {
		return "", false
	}
	select {
	case <-m.dispatch.done:
		return "", false
	default:
		return m.dispatch.cmd, true
	}
}

func (m *Manager) stopDispatch() {
	m.dispatchMu.Lock()
	defer m.dispatchMu.Unlock()
	m.stopDispatchLocked()
}

func (m *Manager) stopDispatchLocked() {
	if m.dispatch == nil {
		return
	}
	m.dispatch.cancel()
	<-m.dispatch.done
	m.dispatch = nil
}

func (m *Manager) repeat(ctx context.Context, s *session, d *dispatchLoop) {
	defer close(d.done)

	ticker := time.NewTicker(m.opts.RepeatInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil || m.sess.Load() != s {
			return
		}
		if err := m.send(s, d.cmd); err != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
