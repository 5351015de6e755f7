// Package telemetry queries the robot's battery level over a short-lived
// side connection, separate from the command link.
package telemetry

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
)

// Defaults for the battery side channel.
const (
	DefaultConnectTimeout = 3 * time.Second
	DefaultReadTimeout    = 5 * time.Second
	DefaultReadLimit      = 256
)

// Options bounds a single query.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	ReadLimit      int

	// Now stamps the result. Defaults to time.Now.
	Now func() time.Time
}

// DefaultOptions returns the standard side-channel settings.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		ReadLimit:      DefaultReadLimit,
	}
}

// Query opens a fresh connection to ep, sends GET_BATTERY, and parses the
// reply as complete lines arrive. The connection is always closed before
// Query returns.
func Query(ctx context.Context, ep link.Endpoint, opts Options) (battery.Status, error) {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	l, err := link.Dial(ctx, ep, link.Options{
		ConnectTimeout: opts.ConnectTimeout,
		ReadTimeout:    opts.ReadTimeout,
		WriteTimeout:   opts.ReadTimeout,
		KeepAlive:      -1,
	})
	if err != nil {
		return battery.Status{}, errors.WrapWithCode(err, errors.ErrTelemetry,
			fmt.Sprintf("Couldn't reach %s for battery status", ep),
			"Check that the robot is powered on and the telemetry service is running")
	}
	defer l.Close()

	// Unblock the read if the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	if err := l.Write(command.GetBattery.Wire()); err != nil {
		return battery.Status{}, errors.WrapWithCode(err, errors.ErrTelemetry,
			"Battery request failed", "")
	}

	buf := make([]byte, opts.ReadLimit)
	n := 0
	for n < len(buf) {
		if ctx.Err() != nil {
			return battery.Status{}, errors.WrapWithCode(ctx.Err(), errors.ErrTelemetry,
				"Battery request cancelled", "")
		}

		m, readErr := l.Read(buf[n:])
		n += m
		// Only complete lines while more may arrive: "BATTERY:4" can be
		// the first half of "BATTERY:42".
		if end := bytes.LastIndexAny(buf[:n], "\r\n"); end >= 0 {
			if status, ok := battery.ParseResponse(buf[:end+1], now()); ok {
				return status, nil
			}
		}
		if readErr != nil {
			if n == 0 {
				return battery.Status{}, errors.WrapWithCode(readErr, errors.ErrTelemetry,
					"No battery reply from robot", "")
			}
			break
		}
	}

	// The reply ended or filled the buffer; an unterminated last line is
	// all there is.
	if status, ok := battery.ParseResponse(buf[:n], now()); ok {
		return status, nil
	}

	return battery.Status{}, errors.New(errors.ErrTelemetry,
		fmt.Sprintf("Unrecognized battery reply %q", string(buf[:n])),
		"The robot should answer GET_BATTERY with a BATTERY:<percent> line")
}
