package link

import (
	"net"
	"strconv"
	"time"
)

// Defaults for the primary command link.
const (
	DefaultConnectTimeout = 5 * time.Second
	DefaultReadTimeout    = 5 * time.Second
	DefaultWriteTimeout   = 2 * time.Second
	DefaultBufferSize     = 512
	DefaultKeepAlive      = 15 * time.Second
)

// Endpoint is the robot's address and port.
type Endpoint struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// String returns the endpoint in host:port form.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.Address, strconv.Itoa(e.Port))
}

// Options tunes a Link.
type Options struct {
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration

	// BufferSize sets both the kernel send and receive buffers. Zero leaves
	// the OS defaults alone.
	BufferSize int

	// KeepAlive is the TCP keep-alive period. Negative disables keep-alive.
	KeepAlive time.Duration

	// Drain starts a background reader that discards inbound bytes. Leave it
	// off for request/response use where the caller reads the reply itself.
	Drain bool
}

// DefaultOptions returns the settings used for the primary command link.
func DefaultOptions() Options {
	return Options{
		ConnectTimeout: DefaultConnectTimeout,
		ReadTimeout:    DefaultReadTimeout,
		WriteTimeout:   DefaultWriteTimeout,
		BufferSize:     DefaultBufferSize,
		KeepAlive:      DefaultKeepAlive,
		Drain:          true,
	}
}
