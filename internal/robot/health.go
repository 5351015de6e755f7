package robot

import (
	"time"
)

// monitor probes the link every HealthInterval. Probe failures are tolerated
// until MaxFailedProbes happen in a row; a link found closed fails the session
// at once.
//
// On a real link only write timeouts count as failed probes. Any other write
// error means the socket is gone: the link marks itself dead and the next tick
// tears the session down without waiting for the threshold.
func (m *Manager) monitor(s *session) {
	defer s.wg.Done()

	ticker := time.NewTicker(m.opts.HealthInterval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}

		if m.sess.Load() != s {
			return
		}
		if !s.conn.Alive() {
			m.fault(s, "link closed")
			return
		}

		if err := m.probe(s); err != nil {
			failures++
			s.log.Warn("Keep-alive failed (%d/%d): %v", failures, m.opts.MaxFailedProbes, err)
			if failures >= m.opts.MaxFailedProbes {
				m.fault(s, "keep-alive failed repeatedly")
				return
			}
			continue
		}

		if failures > 0 {
			s.log.Debug("Keep-alive recovered after %d failures", failures)
		}
		failures = 0
	}
}

func (m *Manager) probe(s *session) error {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	return s.conn.Write(KeepAlive)
}
