// Package robot manages the connection to a hexapod robot.
//
// A Manager owns at most one live session: the command link plus the
// goroutines that serve it.
//
//   - health monitor: writes a keep-alive probe every HealthInterval and tears
//     the session down after MaxFailedProbes consecutive failures, or at once if
//     the link is found closed
//   - dispatcher: re-sends a held motion command every RepeatInterval until it
//     is released
//   - battery poller: queries battery level over a separate short-lived
//     connection on connect and every BatteryPollInterval
//
// Connection state and battery level are published as observable values that
// replay the latest value to new subscribers.
package robot
