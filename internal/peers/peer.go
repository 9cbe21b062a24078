package peers

import "net"

// State is the lifecycle state of one outbound connection.
type State uint8

const (
	// Connecting — the dial has been issued and has not completed.
	Connecting State = iota
	// Connected — the dial succeeded; the socket is usable.
	Connected
	// Closed — the socket errored, was closed by the remote side, or the
	// dial failed. The entry stays in the table until terminated.
	Closed
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Conn is one tracked outbound connection. The table is the sole writer of
// id and state; everything here is read and written from the run loop only.
type Conn struct {
	id   int
	ip   string
	port int

	sock      net.Conn
	state     State
	dialing   bool
	destroyed bool
}

// ID returns the current table identifier. Identifiers are renumbered on
// removal, so an ID is only meaningful until the next terminate.
func (c *Conn) ID() int { return c.id }

// IP returns the remote IPv4 address.
func (c *Conn) IP() string { return c.ip }

// Port returns the remote port.
func (c *Conn) Port() int { return c.port }

// State returns the connection state.
func (c *Conn) State() State { return c.state }

// Dialer abstracts the outbound connect so tests can run without real
// sockets.
type Dialer interface {
	Dial(address string) (net.Conn, error)
}

type netDialer struct{}

func (netDialer) Dial(address string) (net.Conn, error) {
	return net.Dial("tcp4", address)
}
