// Package target interprets text typed or scanned by the user: either a robot
// command or the robot's address.
package target

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/errors"
	"github.com/rileyhilliard/hexctl/internal/link"
)

// Kind says what a piece of text turned out to be.
type Kind int

const (
	KindCommand Kind = iota + 1
	KindEndpoint
)

// Target is the result of Parse. Exactly one of Command or Endpoint is set,
// according to Kind.
type Target struct {
	Kind     Kind
	Command  command.Command
	Endpoint link.Endpoint
}

// Parse tries text as a command first and falls back to an address. Bare
// addresses take defaultPort.
func Parse(text string, defaultPort int) (Target, error) {
	trimmed := strings.TrimSpace(text)

	if cmd, ok := command.Parse(trimmed); ok {
		return Target{Kind: KindCommand, Command: cmd}, nil
	}

	ep, err := ParseEndpoint(trimmed, defaultPort)
	if err != nil {
		return Target{}, err
	}
	return Target{Kind: KindEndpoint, Endpoint: ep}, nil
}

// ParseEndpoint parses "address:port" or a bare "address". The address must be
// an IPv4 address or a hostname.
func ParseEndpoint(text string, defaultPort int) (link.Endpoint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return link.Endpoint{}, errors.New(errors.ErrConfig,
			"Nothing to parse",
			"Expected a robot command or an address like 192.168.1.1:8080")
	}

	host, portStr := text, ""
	if strings.Contains(text, ":") {
		h, p, err := net.SplitHostPort(text)
		if err != nil {
			return link.Endpoint{}, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a command or an address", text),
				"Expected a robot command or an address like 192.168.1.1:8080")
		}
		host, portStr = h, p
	}

	if !validHost(host) {
		return link.Endpoint{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("'%s' isn't a command or an address", text),
			"Expected a robot command or an address like 192.168.1.1:8080")
	}

	port := defaultPort
	if portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p < 1 || p > 65535 {
			return link.Endpoint{}, errors.New(errors.ErrConfig,
				fmt.Sprintf("'%s' isn't a valid port", portStr),
				"Ports range from 1 to 65535")
		}
		port = p
	}

	return link.Endpoint{Address: host, Port: port}, nil
}

func validHost(host string) bool {
	if host == "" {
		return false
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.To4() != nil
	}
	for _, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
		default:
			return false
		}
	}
	// All digits and dots but not an IP, e.g. 192.168.1.
	return strings.Trim(host, "0123456789.") != ""
}
