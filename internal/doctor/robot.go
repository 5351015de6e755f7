package doctor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rileyhilliard/hexctl/internal/battery"
	"github.com/rileyhilliard/hexctl/internal/link"
	"github.com/rileyhilliard/hexctl/internal/robot"
	"github.com/rileyhilliard/hexctl/internal/telemetry"
	"github.com/rileyhilliard/hexctl/internal/ui"
)

// SlowConnectThreshold is the TCP connect time above which the robot is
// reported as reachable but slow.
const SlowConnectThreshold = time.Second

// AddressCheck verifies that the configured address is usable. SSH aliases
// must already be resolved into Endpoint; plain hostnames are looked up in
// DNS.
type AddressCheck struct {
	Endpoint link.Endpoint
	Alias    string // Name the user typed, when it differs from Endpoint.Address
}

func (c *AddressCheck) Name() string     { return "address" }
func (c *AddressCheck) Category() string { return "ROBOT" }

func (c *AddressCheck) Run(ctx context.Context) CheckResult {
	addr := c.Endpoint.Address
	label := addr
	if c.Alias != "" && c.Alias != addr {
		label = fmt.Sprintf("%s (%s)", c.Alias, addr)
	}

	if net.ParseIP(addr) != nil {
		return CheckResult{Status: StatusPass, Message: "Address: " + label}
	}

	addrs, err := net.DefaultResolver.LookupHost(ctx, addr)
	if err != nil || len(addrs) == 0 {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Cannot resolve %s", label),
			Suggestion: "Use the robot's IP address, or add a HostName for it in ~/.ssh/config",
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Address: %s resolves to %s", label, addrs[0]),
	}
}

// ReachableCheck opens and closes a TCP connection to the robot.
type ReachableCheck struct {
	Endpoint link.Endpoint
	Timeout  time.Duration
}

func (c *ReachableCheck) Name() string     { return "reachable" }
func (c *ReachableCheck) Category() string { return "ROBOT" }

func (c *ReachableCheck) Run(ctx context.Context) CheckResult {
	latency, err := link.ProbeTCP(ctx, c.Endpoint, c.timeout())
	if err != nil {
		res := CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s unreachable: %v", c.Endpoint, err),
			Suggestion: "Check the robot is powered on and on the same network",
		}
		var de *link.DialError
		if errors.As(err, &de) && de.Reason == link.DialFailRefused {
			res.Suggestion = "The robot answered but nothing listens on that port; check the port number"
		}
		return res
	}

	if latency > SlowConnectThreshold {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("%s reachable but slow (%s)", c.Endpoint, ui.FormatDuration(latency)),
			Suggestion: "Move closer to the robot's access point",
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("%s reachable (%s)", c.Endpoint, ui.FormatDuration(latency)),
	}
}

func (c *ReachableCheck) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return link.DefaultConnectTimeout
}

// KeepAliveCheck sends a single keep-alive byte and waits for the robot to
// echo it back, the same exchange the connection manager's health probe
// relies on.
type KeepAliveCheck struct {
	Endpoint link.Endpoint
	Timeout  time.Duration
}

func (c *KeepAliveCheck) Name() string     { return "keepalive" }
func (c *KeepAliveCheck) Category() string { return "ROBOT" }

func (c *KeepAliveCheck) Run(ctx context.Context) CheckResult {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = link.DefaultReadTimeout
	}

	l, err := link.Dial(ctx, c.Endpoint, link.Options{
		ConnectTimeout: timeout,
		ReadTimeout:    timeout,
		WriteTimeout:   timeout,
		KeepAlive:      -1,
	})
	if err != nil {
		return CheckResult{
			Status:  StatusFail,
			Message: fmt.Sprintf("Cannot open a link for the keep-alive test: %v", err),
		}
	}
	defer l.Close()

	start := time.Now()
	if err := l.Write(robot.KeepAlive); err != nil {
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Keep-alive write failed: %v", err),
			Suggestion: "The robot closed the connection; restart its firmware",
		}
	}

	buf := make([]byte, 16)
	n, err := l.Read(buf)
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return CheckResult{
				Status:     StatusWarn,
				Message:    fmt.Sprintf("No keep-alive echo within %s", ui.FormatDuration(timeout)),
				Suggestion: "Health checks will count missed probes; consider raising timing.health_interval",
			}
		}
		return CheckResult{
			Status:     StatusFail,
			Message:    fmt.Sprintf("Keep-alive read failed: %v", err),
			Suggestion: "The robot dropped the link after a keep-alive; check its firmware",
		}
	}
	if n == 0 || buf[0] != robot.KeepAlive[0] {
		return CheckResult{
			Status:  StatusWarn,
			Message: fmt.Sprintf("Unexpected keep-alive reply %q", buf[:n]),
		}
	}

	return CheckResult{
		Status:  StatusPass,
		Message: fmt.Sprintf("Keep-alive echoed in %s", ui.FormatDuration(time.Since(start))),
	}
}

// BatteryCheck runs one telemetry query and warns when the charge is low.
type BatteryCheck struct {
	Endpoint link.Endpoint
	Options  telemetry.Options
}

func (c *BatteryCheck) Name() string     { return "battery" }
func (c *BatteryCheck) Category() string { return "TELEMETRY" }

func (c *BatteryCheck) Run(ctx context.Context) CheckResult {
	status, err := telemetry.Query(ctx, c.Endpoint, c.Options)
	if err != nil {
		return CheckResult{
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Battery query failed: %v", err),
			Suggestion: "Driving still works; the battery readout will stay unknown",
		}
	}

	if status.Level() == battery.LevelLow {
		return CheckResult{
			Status:     StatusWarn,
			Message:    "Battery low: " + status.String(),
			Suggestion: "Charge the robot before driving",
		}
	}

	return CheckResult{Status: StatusPass, Message: "Battery: " + status.String()}
}

// RobotChecks returns the standard checks for an endpoint, in report order.
func RobotChecks(ep link.Endpoint, alias string, timeout time.Duration, topts telemetry.Options) []Check {
	return []Check{
		&AddressCheck{Endpoint: ep, Alias: alias},
		&ReachableCheck{Endpoint: ep, Timeout: timeout},
		&KeepAliveCheck{Endpoint: ep, Timeout: timeout},
		&BatteryCheck{Endpoint: ep, Options: topts},
	}
}
