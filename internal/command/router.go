// Package command maps console input lines to operations on the endpoint
// and the connection table.
//
// The router is a plain map from command name to handler closure. Every
// handler validates its own argument count and shape; validation and
// not-found failures are printed at the dispatch boundary and never
// terminate the loop. An unknown command name is not an error at all, just
// a printed notice.
package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nyvia-projects/peerchat/internal/addr"
	"github.com/nyvia-projects/peerchat/internal/cmderr"
	"github.com/nyvia-projects/peerchat/internal/endpoint"
	"github.com/nyvia-projects/peerchat/internal/peers"
)

type handler func(args []string) error

// Router dispatches one input line at a time.
type Router struct {
	ep    *endpoint.Endpoint
	table *peers.Table
	out   io.Writer
	cmds  map[string]handler
	quit  bool
}

// NewRouter builds a Router over the process's endpoint and table.
func NewRouter(ep *endpoint.Endpoint, table *peers.Table, out io.Writer) *Router {
	r := &Router{ep: ep, table: table, out: out}
	r.cmds = map[string]handler{
		"help":      r.help,
		"myip":      r.myIP,
		"myport":    r.myPort,
		"connect":   r.connect,
		"list":      r.list,
		"terminate": r.terminate,
		"send":      r.send,
		"exit":      r.exit,
	}
	return r
}

// Dispatch runs one input line to completion and reports whether the loop
// should stop. Blank lines are ignored; per-command errors are printed and
// recovered here.
func (r *Router) Dispatch(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	h, ok := r.cmds[fields[0]]
	if !ok {
		fmt.Fprintf(r.out, "%s: command not found\n", fields[0])
		return false
	}
	if err := h(fields[1:]); err != nil {
		fmt.Fprintln(r.out, err)
		return false
	}
	return r.quit
}

func (r *Router) help(args []string) error {
	if len(args) != 0 {
		return cmderr.New(cmderr.InvalidArgs, "usage: help")
	}
	fmt.Fprint(r.out, `Available commands:
  help                       show this message
  myip                       show this process's IP address
  myport                     show the port this process listens on
  connect <ip> <port>        open a connection to a peer
  list                       list all connections
  terminate <id>             close and remove a connection
  send <id> <message...>     send a message over a connection
  exit                       close everything and quit
`)
	return nil
}

func (r *Router) myIP(args []string) error {
	if len(args) != 0 {
		return cmderr.New(cmderr.InvalidArgs, "usage: myip")
	}
	fmt.Fprintln(r.out, r.ep.IP())
	return nil
}

func (r *Router) myPort(args []string) error {
	if len(args) != 0 {
		return cmderr.New(cmderr.InvalidArgs, "usage: myport")
	}
	fmt.Fprintln(r.out, r.ep.Port())
	return nil
}

func (r *Router) connect(args []string) error {
	if len(args) != 2 {
		return cmderr.New(cmderr.InvalidArgs, "usage: connect <ip> <port>")
	}
	if err := addr.CheckIPv4(args[0]); err != nil {
		return err
	}
	port, err := addr.ParsePort(args[1])
	if err != nil {
		return err
	}
	c, err := r.table.Add(args[0], port)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "connecting to %s as id %d\n", addr.HostPort(c.IP(), c.Port()), c.ID())
	return nil
}

func (r *Router) list(args []string) error {
	if len(args) != 0 {
		return cmderr.New(cmderr.InvalidArgs, "usage: list")
	}
	fmt.Fprintf(r.out, "%-4s %-16s %s\n", "id", "ip", "port")
	for _, c := range r.table.Snapshot() {
		fmt.Fprintf(r.out, "%-4d %-16s %d\n", c.ID(), c.IP(), c.Port())
	}
	return nil
}

func (r *Router) terminate(args []string) error {
	if len(args) != 1 {
		return cmderr.New(cmderr.InvalidArgs, "usage: terminate <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return cmderr.New(cmderr.InvalidArgs, "id %q is not a number", args[0])
	}
	if err := r.table.Remove(id); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "connection %d terminated\n", id)
	return nil
}

func (r *Router) send(args []string) error {
	if len(args) < 2 {
		return cmderr.New(cmderr.InvalidArgs, "usage: send <id> <message...>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return cmderr.New(cmderr.InvalidArgs, "id %q is not a number", args[0])
	}
	msg := strings.Join(args[1:], " ")
	if msg == "" {
		return cmderr.New(cmderr.InvalidArgs, "message must not be empty")
	}
	return r.table.Send(id, msg)
}

func (r *Router) exit(args []string) error {
	if len(args) != 0 {
		return cmderr.New(cmderr.InvalidArgs, "usage: exit")
	}
	fmt.Fprintln(r.out, "closing all connections, goodbye")
	r.quit = true
	return nil
}
