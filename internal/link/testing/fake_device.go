// Package testing provides a fake robot for exercising links end to end.
package testing

import (
	"bytes"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/rileyhilliard/hexctl/internal/command"
	"github.com/rileyhilliard/hexctl/internal/link"
)

// Received is one command token the fake device read off a connection.
type Received struct {
	Conn    int
	Command string
	At      time.Time
}

// FakeDevice is a TCP listener on loopback that behaves like the robot: it
// records command tokens, echoes single zero-byte pings, and answers battery
// requests on short-lived connections.
type FakeDevice struct {
	ln net.Listener

	mu sync.Mutex

	// Configuration
	batteryReply string
	silent       bool // don't echo pings

	// Tracking
	received        []Received
	pings           int
	batteryRequests int
	accepted        int
	conns           map[net.Conn]int

	wg sync.WaitGroup
}

// NewFakeDevice starts a fake device on an ephemeral loopback port.
func NewFakeDevice() (*FakeDevice, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	d := &FakeDevice{
		ln:           ln,
		batteryReply: "BATTERY:80\n",
		conns:        make(map[net.Conn]int),
	}

	d.wg.Add(1)
	go d.serve()
	return d, nil
}

// Endpoint returns the address the fake device listens on.
func (d *FakeDevice) Endpoint() link.Endpoint {
	addr := d.ln.Addr().(*net.TCPAddr)
	return link.Endpoint{Address: addr.IP.String(), Port: addr.Port}
}

// Close stops the listener and drops every connection.
func (d *FakeDevice) Close() {
	_ = d.ln.Close()
	d.DropConnections()
	d.wg.Wait()
}

// SetBatteryReply sets the raw bytes written back for GET_BATTERY. An empty
// reply closes the connection without answering.
func (d *FakeDevice) SetBatteryReply(reply string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.batteryReply = reply
}

// SetSilent stops the device from echoing pings.
func (d *FakeDevice) SetSilent(silent bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.silent = silent
}

// DropConnections closes every open connection from the device side.
func (d *FakeDevice) DropConnections() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for c := range d.conns {
		_ = c.Close()
	}
}

// Received returns every command token read so far.
func (d *FakeDevice) Received() []Received {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Received, len(d.received))
	copy(out, d.received)
	return out
}

// Commands returns just the command tokens, in arrival order.
func (d *FakeDevice) Commands() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.received))
	for i, r := range d.received {
		out[i] = r.Command
	}
	return out
}

// CountOf returns how many times cmd was received.
func (d *FakeDevice) CountOf(cmd command.Command) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, r := range d.received {
		if r.Command == string(cmd) {
			n++
		}
	}
	return n
}

// Pings returns the number of zero-byte keep-alives received.
func (d *FakeDevice) Pings() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pings
}

// BatteryRequests returns the number of GET_BATTERY requests answered.
func (d *FakeDevice) BatteryRequests() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batteryRequests
}

// Accepted returns the total number of connections accepted.
func (d *FakeDevice) Accepted() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.accepted
}

// Open returns the number of connections currently open.
func (d *FakeDevice) Open() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *FakeDevice) serve() {
	defer d.wg.Done()
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}

		d.mu.Lock()
		d.accepted++
		id := d.accepted
		d.conns[conn] = id
		d.mu.Unlock()

		d.wg.Add(1)
		go d.handle(conn, id)
	}
}

func (d *FakeDevice) handle(conn net.Conn, id int) {
	defer d.wg.Done()
	defer func() {
		d.mu.Lock()
		delete(d.conns, conn)
		d.mu.Unlock()
		_ = conn.Close()
	}()

	var pending []byte
	buf := make([]byte, 512)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		pending = append(pending, buf[:n]...)

		if bytes.HasPrefix(pending, command.GetBattery.Wire()) {
			d.answerBattery(conn)
			return
		}

		pending = d.consume(conn, id, pending)
	}
}

func (d *FakeDevice) answerBattery(conn net.Conn) {
	d.mu.Lock()
	d.batteryRequests++
	reply := d.batteryReply
	d.mu.Unlock()

	if reply != "" {
		_, _ = conn.Write([]byte(reply))
	}
}

// consume records every complete token at the front of data and returns the
// unconsumed remainder.
func (d *FakeDevice) consume(conn net.Conn, id int, data []byte) []byte {
	for len(data) > 0 {
		switch data[0] {
		case 0x00:
			d.mu.Lock()
			d.pings++
			silent := d.silent
			d.mu.Unlock()
			if !silent {
				_, _ = conn.Write([]byte{0x00})
			}
			data = data[1:]
			continue
		case '\n', '\r':
			data = data[1:]
			continue
		}

		token, partial := matchToken(string(data))
		if partial {
			return data
		}
		if token == "" {
			// Unknown byte; skip it.
			data = data[1:]
			continue
		}

		d.mu.Lock()
		d.received = append(d.received, Received{Conn: id, Command: token, At: time.Now()})
		d.mu.Unlock()
		data = data[len(token):]
	}
	return data
}

// matchToken finds the longest command at the start of s. partial is true
// when s is itself an incomplete prefix of a command.
func matchToken(s string) (token string, partial bool) {
	for _, c := range command.All() {
		w := string(c)
		if strings.HasPrefix(s, w) && len(w) > len(token) {
			token = w
		}
	}
	if token != "" {
		return token, false
	}
	for _, c := range command.All() {
		if strings.HasPrefix(string(c), s) {
			return "", true
		}
	}
	return "", false
}
