package link

import (
	"context"
	"net"
	"time"
)

// ProbeTCP performs a bare TCP connection test and returns the handshake
// latency. Failures are returned as *DialError.
func ProbeTCP(ctx context.Context, ep Endpoint, timeout time.Duration) (time.Duration, error) {
	start := time.Now()

	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "tcp", ep.String())
	if err != nil {
		return 0, categorizeDialError(ep, err)
	}
	defer conn.Close()

	return time.Since(start), nil
}
