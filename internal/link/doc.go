// Package link owns a single TCP connection to the robot.
//
// A Link is tuned for short interactive frames: Nagle is disabled, the socket
// buffers are kept small, and TCP keep-alive is on. Every write runs under a
// deadline. When draining is enabled a background reader discards whatever the
// robot sends back (ping echoes, chatter) and marks the Link dead as soon as the
// peer hangs up, so liveness checks do not have to wait for a failed write.
package link
