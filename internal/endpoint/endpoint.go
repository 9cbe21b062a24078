// Package endpoint owns the process's single inbound listening socket.
//
// An Endpoint is created exactly once, at startup, and handed by reference
// to whoever needs the local identity — there is no package-level instance.
// Accepted sockets are monitored passively: whatever arrives is reported
// with the sender's address and port, and a socket that errors or closes is
// dropped from the endpoint's own bookkeeping only. The connection table is
// never touched from here.
package endpoint

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"

	"github.com/nyvia-projects/peerchat/internal/addr"
	"github.com/nyvia-projects/peerchat/internal/cmderr"
)

// Config configures an Endpoint.
type Config struct {
	Port int       // listening port; validated against the allowed range
	IP   string    // bind address; discovered from the interfaces when empty
	Out  io.Writer // inbound traffic reports; defaults to os.Stdout
}

// Endpoint is the local listening network identity. Its address and port
// never change after Listen returns.
type Endpoint struct {
	ip   string
	port int
	ln   net.Listener
	out  io.Writer

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// Listen binds the endpoint and starts accepting inbound connections.
func Listen(cfg Config) (*Endpoint, error) {
	if err := addr.CheckPort(cfg.Port); err != nil {
		return nil, err
	}
	ip := cfg.IP
	if ip == "" {
		var err error
		ip, err = LocalIPv4()
		if err != nil {
			return nil, err
		}
	} else if err := addr.CheckIPv4(ip); err != nil {
		return nil, err
	}
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}

	ln, err := net.Listen("tcp4", addr.HostPort(ip, cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("endpoint: bind %s:%d: %w", ip, cfg.Port, err)
	}
	e := &Endpoint{
		ip:    ip,
		port:  cfg.Port,
		ln:    ln,
		out:   out,
		conns: make(map[net.Conn]struct{}),
	}
	go e.acceptLoop()
	return e, nil
}

// IP returns the bound IPv4 address.
func (e *Endpoint) IP() string { return e.ip }

// Port returns the bound port.
func (e *Endpoint) Port() int { return e.port }

// Close shuts down the listener and all accepted sockets.
func (e *Endpoint) Close() error {
	err := e.ln.Close()
	e.mu.Lock()
	for c := range e.conns {
		c.Close()
	}
	e.mu.Unlock()
	return err
}

func (e *Endpoint) acceptLoop() {
	for {
		conn, err := e.ln.Accept()
		if err != nil {
			return
		}
		fmt.Fprintf(e.out, "\npeer connected from %s\n> ", conn.RemoteAddr())
		e.mu.Lock()
		e.conns[conn] = struct{}{}
		e.mu.Unlock()
		go e.readLoop(conn)
	}
}

// readLoop reports raw inbound bytes until the socket errors or closes,
// then forgets the socket.
func (e *Endpoint) readLoop(conn net.Conn) {
	defer func() {
		conn.Close()
		e.mu.Lock()
		delete(e.conns, conn)
		e.mu.Unlock()
	}()

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			Report(e.out, conn.RemoteAddr(), buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				log.Printf("endpoint: %s: %v", conn.RemoteAddr(), err)
			}
			fmt.Fprintf(e.out, "\npeer %s disconnected\n> ", conn.RemoteAddr())
			return
		}
	}
}

// Report writes one inbound traffic line: sender address, sender port and
// the raw payload. Shared with the outbound side, which can receive replies
// on the sockets it dialed.
func Report(w io.Writer, from net.Addr, payload []byte) {
	host, port, err := net.SplitHostPort(from.String())
	if err != nil {
		host, port = from.String(), "?"
	}
	fmt.Fprintf(w, "\nmessage from %s port %s: %s\n> ", host, port, payload)
}

// LocalIPv4 returns the first non-loopback IPv4 address of this host.
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", cmderr.New(cmderr.IPResolution, "list interfaces: %v", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			var ip net.IP
			switch v := a.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip == nil || ip.IsLoopback() {
				continue
			}
			if ip4 := ip.To4(); ip4 != nil {
				return ip4.String(), nil
			}
		}
	}
	return "", cmderr.New(cmderr.IPResolution, "no non-loopback IPv4 address on this host")
}
