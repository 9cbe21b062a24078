package addr

import (
	"testing"

	"github.com/nyvia-projects/peerchat/internal/cmderr"
)

func TestParsePort(t *testing.T) {
	cases := []struct {
		in   string
		port int
		ok   bool
	}{
		{"1025", 1025, true},
		{"4000", 4000, true},
		{"65534", 65534, true},
		{"1024", 0, false}, // bounds are exclusive
		{"65535", 0, false},
		{"0", 0, false},
		{"-1", 0, false},
		{"abc", 0, false},
		{"80x", 0, false},
		{"", 0, false},
	}
	for _, c := range cases {
		port, err := ParsePort(c.in)
		if c.ok {
			if err != nil {
				t.Errorf("ParsePort(%q): unexpected error %v", c.in, err)
			} else if port != c.port {
				t.Errorf("ParsePort(%q) = %d, want %d", c.in, port, c.port)
			}
			continue
		}
		if err == nil {
			t.Errorf("ParsePort(%q): want error", c.in)
			continue
		}
		if kind, ok := cmderr.KindOf(err); !ok || kind != cmderr.InvalidPort {
			t.Errorf("ParsePort(%q): want invalid-port kind, got %v", c.in, err)
		}
	}
}

func TestCheckIPv4(t *testing.T) {
	good := []string{"10.0.0.5", "192.168.1.1", "0.0.0.0", "255.255.255.255"}
	for _, s := range good {
		if err := CheckIPv4(s); err != nil {
			t.Errorf("CheckIPv4(%q): unexpected error %v", s, err)
		}
	}

	bad := []string{"999.1.1.1", "1.2.3", "1.2.3.4.5", "abc", "", "::1", "10.0.0.", "10.0.0.5:80"}
	for _, s := range bad {
		err := CheckIPv4(s)
		if err == nil {
			t.Errorf("CheckIPv4(%q): want error", s)
			continue
		}
		if kind, ok := cmderr.KindOf(err); !ok || kind != cmderr.IPResolution {
			t.Errorf("CheckIPv4(%q): want ip-resolution kind, got %v", s, err)
		}
	}
}

func TestHostPort(t *testing.T) {
	if got := HostPort("10.0.0.5", 9000); got != "10.0.0.5:9000" {
		t.Fatalf("HostPort = %q", got)
	}
}
