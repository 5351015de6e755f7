package robot

import (
	"fmt"

	"github.com/rileyhilliard/hexctl/internal/link"
)

// Kind identifies a connection state.
type Kind int

const (
	KindDisconnected Kind = iota
	KindConnecting
	KindConnected
	KindError
)

// String returns a lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindDisconnected:
		return "disconnected"
	case KindConnecting:
		return "connecting"
	case KindConnected:
		return "connected"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is the connection state. Address and Port are set only when
// Connected; Message only in the Error state.
type State struct {
	Kind    Kind   `json:"state"`
	Address string `json:"address,omitempty"`
	Port    int    `json:"port,omitempty"`
	Message string `json:"message,omitempty"`
}

// Disconnected is the idle state.
func Disconnected() State { return State{Kind: KindDisconnected} }

// Connecting is the state while a dial is in flight.
func Connecting() State { return State{Kind: KindConnecting} }

// Connected is the state while a session is live.
func Connected(address string, port int) State {
	return State{Kind: KindConnected, Address: address, Port: port}
}

// Failed is the error state with a user-facing message.
func Failed(message string) State {
	return State{Kind: KindError, Message: message}
}

// IsConnected reports whether s is Connected.
func (s State) IsConnected() bool {
	return s.Kind == KindConnected
}

// Endpoint returns the connected endpoint. It is zero unless Connected.
func (s State) Endpoint() link.Endpoint {
	return link.Endpoint{Address: s.Address, Port: s.Port}
}

func (s State) String() string {
	switch s.Kind {
	case KindConnected:
		return fmt.Sprintf("connected to %s", s.Endpoint())
	case KindError:
		return "error: " + s.Message
	default:
		return s.Kind.String()
	}
}
