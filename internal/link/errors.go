package link

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrClosed is returned by operations on a Link that has been closed or whose
// peer has gone away.
var ErrClosed = errors.New("link closed")

// DialFailReason categorizes why a dial failed.
type DialFailReason int

const (
	DialFailUnknown DialFailReason = iota
	DialFailTimeout
	DialFailRefused
	DialFailUnreachable
)

// String returns a human-readable description of the failure reason.
func (r DialFailReason) String() string {
	switch r {
	case DialFailTimeout:
		return "connection timed out"
	case DialFailRefused:
		return "connection refused"
	case DialFailUnreachable:
		return "host unreachable"
	default:
		return "unknown error"
	}
}

// DialError is a failed connection attempt with a categorized reason.
type DialError struct {
	Endpoint Endpoint
	Reason   DialFailReason
	Cause    error
}

func (e *DialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dial %s failed: %s (%v)", e.Endpoint, e.Reason, e.Cause)
	}
	return fmt.Sprintf("dial %s failed: %s", e.Endpoint, e.Reason)
}

func (e *DialError) Unwrap() error {
	return e.Cause
}

// Summary is the short message shown to the user for this failure.
func (e *DialError) Summary() string {
	switch e.Reason {
	case DialFailRefused:
		return "Connection refused: robot not available"
	case DialFailTimeout:
		return "Connection timeout: robot not responding"
	case DialFailUnreachable:
		return "Host unreachable: check the robot's network"
	default:
		if e.Cause != nil {
			return "Failed to connect: " + e.Cause.Error()
		}
		return "Failed to connect"
	}
}

// categorizeDialError converts a dial error into a DialError with a
// categorized failure reason.
func categorizeDialError(ep Endpoint, err error) *DialError {
	if err == nil {
		return nil
	}

	dialErr := &DialError{
		Endpoint: ep,
		Reason:   DialFailUnknown,
		Cause:    err,
	}

	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		dialErr.Reason = DialFailTimeout
		return dialErr
	case errors.Is(err, syscall.ECONNREFUSED):
		dialErr.Reason = DialFailRefused
		return dialErr
	case errors.Is(err, syscall.EHOSTUNREACH),
		errors.Is(err, syscall.ENETUNREACH),
		errors.Is(err, syscall.EHOSTDOWN):
		dialErr.Reason = DialFailUnreachable
		return dialErr
	}

	// Fall back to message matching for wrapped or platform-specific errors.
	errStr := strings.ToLower(err.Error())

	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out") {
		dialErr.Reason = DialFailTimeout
		return dialErr
	}

	if strings.Contains(errStr, "connection refused") {
		dialErr.Reason = DialFailRefused
		return dialErr
	}

	if strings.Contains(errStr, "no route to host") ||
		strings.Contains(errStr, "network is unreachable") ||
		strings.Contains(errStr, "host is down") {
		dialErr.Reason = DialFailUnreachable
		return dialErr
	}

	return dialErr
}
