// Package cmderr defines the error kinds shared by the command layer, the
// endpoint and the connection table. Callers branch on the kind to decide
// whether a failure is fatal (startup) or recovered at the prompt.
package cmderr

import (
	"errors"
	"fmt"
)

// Kind tags an Error with its failure class.
type Kind int

const (
	// IPResolution — no usable local IPv4 address, or a supplied address
	// is not a well-formed dotted quad.
	IPResolution Kind = iota

	// InvalidPort — a port is non-numeric or outside (1024, 65535).
	InvalidPort

	// InvalidArgs — a command received the wrong number or shape of
	// arguments.
	InvalidArgs

	// NotFound — an identifier names no entry in the connection table.
	NotFound
)

func (k Kind) String() string {
	switch k {
	case IPResolution:
		return "ip-resolution"
	case InvalidPort:
		return "invalid-port"
	case InvalidArgs:
		return "invalid-arguments"
	case NotFound:
		return "connection-not-found"
	}
	return "unknown"
}

// Error carries a kind plus a human-readable detail line.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// New builds an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err. The second return is false when err
// does not carry one.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
