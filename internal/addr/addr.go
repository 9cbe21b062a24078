// Package addr validates the IPv4 addresses and port numbers this system
// accepts, both at startup and on every connect command.
package addr

import (
	"net"
	"strconv"
	"strings"

	"github.com/nyvia-projects/peerchat/internal/cmderr"
)

// Ports are valid strictly between the privileged range and the upper bound.
const (
	PortMin = 1024  // exclusive
	PortMax = 65535 // exclusive
)

// CheckPort validates an already-parsed port number.
func CheckPort(port int) error {
	if port <= PortMin || port >= PortMax {
		return cmderr.New(cmderr.InvalidPort, "port %d out of range: must be between %d and %d exclusive", port, PortMin, PortMax)
	}
	return nil
}

// ParsePort parses and validates a base-10 port string.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, cmderr.New(cmderr.InvalidPort, "port %q is not a number", s)
	}
	if err := CheckPort(port); err != nil {
		return 0, err
	}
	return port, nil
}

// CheckIPv4 validates that s is a dotted-quad IPv4 address: four decimal
// octets 0-255. IPv6 and other textual forms net.ParseIP would accept are
// rejected.
func CheckIPv4(s string) error {
	if strings.Count(s, ".") != 3 {
		return cmderr.New(cmderr.IPResolution, "%q is not a dotted-quad IPv4 address", s)
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return cmderr.New(cmderr.IPResolution, "%q is not a dotted-quad IPv4 address", s)
	}
	return nil
}

// HostPort joins a validated address and port into the dial form.
func HostPort(ip string, port int) string {
	return net.JoinHostPort(ip, strconv.Itoa(port))
}
