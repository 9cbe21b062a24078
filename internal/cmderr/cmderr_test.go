package cmderr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCarriesDetail(t *testing.T) {
	err := New(NotFound, "no connection with id %d", 3)
	if err.Error() != "no connection with id 3" {
		t.Fatalf("got %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	err := New(InvalidPort, "port out of range")
	kind, ok := KindOf(err)
	if !ok || kind != InvalidPort {
		t.Fatalf("got %v %v", kind, ok)
	}

	// Wrapped errors still expose the kind.
	wrapped := fmt.Errorf("startup: %w", err)
	kind, ok = KindOf(wrapped)
	if !ok || kind != InvalidPort {
		t.Fatalf("wrapped: got %v %v", kind, ok)
	}

	if _, ok := KindOf(errors.New("plain")); ok {
		t.Fatal("plain errors must not report a kind")
	}
	if _, ok := KindOf(nil); ok {
		t.Fatal("nil must not report a kind")
	}
}

func TestKindStrings(t *testing.T) {
	for kind, want := range map[Kind]string{
		IPResolution: "ip-resolution",
		InvalidPort:  "invalid-port",
		InvalidArgs:  "invalid-arguments",
		NotFound:     "connection-not-found",
	} {
		if kind.String() != want {
			t.Errorf("%d.String() = %q, want %q", kind, kind.String(), want)
		}
	}
}
