package robot

import (
	"time"
)

// poll fetches battery status on connect and every BatteryPollInterval while
// the session is live. Failures leave the last published status in place.
func (m *Manager) poll(s *session) {
	defer s.wg.Done()

	m.pollOnce(s)

	ticker := time.NewTicker(m.opts.BatteryPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
		}

		if m.sess.Load() != s {
			return
		}
		m.pollOnce(s)
	}
}

func (m *Manager) pollOnce(s *session) {
	status, err := m.opts.Query(s.ctx, s.endpoint, m.opts.Telemetry)
	if err != nil {
		if s.ctx.Err() == nil {
			s.log.Debug("Battery poll failed: %v", err)
		}
		return
	}

	if s.ctx.Err() != nil || m.sess.Load() != s {
		return
	}

	s.log.Debug("Battery %s", status)
	m.battery.Set(&status)
}
