// Package peers tracks the outbound connections this process initiates.
//
// Design:
//   - The Table is owned by the run loop: Add, Remove, Send, Snapshot and
//     Apply are all called from that one goroutine, so no lock guards the
//     collection.
//   - Dial and read goroutines never touch the table. They post completions
//     (dial result, socket close) on the Events channel, and the run loop
//     feeds them back through Apply one at a time, interleaved with user
//     commands.
//   - Identifiers are dense: after every mutation the live IDs are exactly
//     1..len, in insertion-then-renumbering order, and the next ID is len+1.
package peers

import (
	"fmt"
	"io"
	"net"
	"os"

	"github.com/nyvia-projects/peerchat/internal/addr"
	"github.com/nyvia-projects/peerchat/internal/cmderr"
	"github.com/nyvia-projects/peerchat/internal/endpoint"
)

const eventDepth = 64

// Config configures a Table.
type Config struct {
	// Local is this process's own ip:port, announced to a peer when the
	// dial succeeds.
	Local string
	// Dialer defaults to real TCP when nil.
	Dialer Dialer
	// Out receives user-visible transport reports; defaults to os.Stdout.
	Out io.Writer
}

// Table is the ordered collection of outbound connections.
type Table struct {
	local  string
	dialer Dialer
	out    io.Writer

	conns  []*Conn
	nextID int
	events chan Event
}

// NewTable creates an empty Table.
func NewTable(cfg Config) *Table {
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = netDialer{}
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Table{
		local:  cfg.Local,
		dialer: dialer,
		out:    out,
		nextID: 1,
		events: make(chan Event, eventDepth),
	}
}

// Event is a socket completion waiting to be applied by the run loop.
type Event struct {
	kind eventKind
	conn *Conn
	sock net.Conn
	err  error
}

type eventKind uint8

const (
	evDialDone eventKind = iota
	evSockClosed
)

// Events returns the channel of pending socket completions. The run loop
// must pass each received event to Apply.
func (t *Table) Events() <-chan Event {
	return t.events
}

// Apply folds one socket completion into the table.
func (t *Table) Apply(ev Event) {
	c := ev.conn
	switch ev.kind {
	case evDialDone:
		c.dialing = false
		if c.destroyed {
			if ev.sock != nil {
				ev.sock.Close()
			}
			return
		}
		if ev.err != nil {
			c.state = Closed
			fmt.Fprintf(t.out, "\npeer %s is not reachable: %v\n> ", addr.HostPort(c.ip, c.port), ev.err)
			return
		}
		c.sock = ev.sock
		c.state = Connected
		fmt.Fprintf(t.out, "\nconnected to %s\n> ", addr.HostPort(c.ip, c.port))
		fmt.Fprintf(c.sock, "%s joined\n", t.local) //nolint:errcheck
		go t.readLoop(c, ev.sock)

	case evSockClosed:
		// Stale when the entry was terminated or already re-dialed.
		if c.destroyed || c.sock != ev.sock {
			return
		}
		c.sock.Close()
		c.sock = nil
		c.state = Closed
		fmt.Fprintf(t.out, "\nconnection to %s closed\n> ", addr.HostPort(c.ip, c.port))
	}
}

// Add validates the remote address, appends a new entry in Connecting
// state and issues the asynchronous dial. Nothing is mutated on a
// validation failure.
func (t *Table) Add(ip string, port int) (*Conn, error) {
	if err := addr.CheckIPv4(ip); err != nil {
		return nil, err
	}
	if err := addr.CheckPort(port); err != nil {
		return nil, err
	}
	c := &Conn{
		id:    t.nextID,
		ip:    ip,
		port:  port,
		state: Connecting,
	}
	t.conns = append(t.conns, c)
	t.nextID++
	t.dial(c)
	return c, nil
}

// Remove closes the identified connection, removes it and renumbers the
// survivors to 1..len.
func (t *Table) Remove(id int) error {
	idx := -1
	for i, c := range t.conns {
		if c.id == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cmderr.New(cmderr.NotFound, "no connection with id %d", id)
	}
	c := t.conns[idx]
	c.destroyed = true
	if c.sock != nil {
		c.sock.Close()
		c.sock = nil
	}
	c.state = Closed
	t.conns = append(t.conns[:idx], t.conns[idx+1:]...)
	for i, s := range t.conns {
		s.id = i + 1
	}
	t.nextID = len(t.conns) + 1
	return nil
}

// Send writes text as raw bytes on the identified connection. A peer that
// is not currently connected is reported and re-dialed instead; transport
// failures never remove the entry.
func (t *Table) Send(id int, text string) error {
	c := t.find(id)
	if c == nil {
		return cmderr.New(cmderr.NotFound, "no connection with id %d", id)
	}
	if c.state != Connected || c.sock == nil {
		fmt.Fprintf(t.out, "peer %s is not connected, retrying\n", addr.HostPort(c.ip, c.port))
		t.dial(c)
		return nil
	}
	if _, err := c.sock.Write([]byte(text)); err != nil {
		fmt.Fprintf(t.out, "send to %s failed: %v\n", addr.HostPort(c.ip, c.port), err)
	}
	return nil
}

// Snapshot returns the current entries in table order.
func (t *Table) Snapshot() []*Conn {
	out := make([]*Conn, len(t.conns))
	copy(out, t.conns)
	return out
}

// Len returns the number of tracked connections.
func (t *Table) Len() int { return len(t.conns) }

// CloseAll force-closes every socket. Called once at shutdown.
func (t *Table) CloseAll() {
	for _, c := range t.conns {
		c.destroyed = true
		if c.sock != nil {
			c.sock.Close()
			c.sock = nil
		}
		c.state = Closed
	}
}

func (t *Table) find(id int) *Conn {
	for _, c := range t.conns {
		if c.id == id {
			return c
		}
	}
	return nil
}

// dial issues the asynchronous connect. Idempotent: a connection that is
// already dialing or already destroyed is left alone, so repeated retries
// never stack in-flight attempts.
func (t *Table) dial(c *Conn) {
	if c.dialing || c.destroyed {
		return
	}
	if c.sock != nil {
		return
	}
	c.dialing = true
	c.state = Connecting
	address := addr.HostPort(c.ip, c.port)
	go func() {
		sock, err := t.dialer.Dial(address)
		t.events <- Event{kind: evDialDone, conn: c, sock: sock, err: err}
	}()
}

// readLoop reports replies the peer writes back on the dialed socket and
// posts the close completion when the socket dies.
func (t *Table) readLoop(c *Conn, sock net.Conn) {
	buf := make([]byte, 4096)
	for {
		n, err := sock.Read(buf)
		if n > 0 {
			endpoint.Report(t.out, sock.RemoteAddr(), buf[:n])
		}
		if err != nil {
			t.events <- Event{kind: evSockClosed, conn: c, sock: sock}
			return
		}
	}
}
