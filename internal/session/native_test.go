//go:build cgo && linux

package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"crepl/internal/diag"
	"crepl/internal/registry"
)

func newNative(t *testing.T) (*Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	s, err := New(context.Background(), Config{
		Backend: NativeBackend(),
		Out:     &out,
		Err:     &errOut,
		Quiet:   true,
	})
	if err != nil {
		t.Skipf("default library unavailable: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, &out, &errOut
}

func TestNativeSin(t *testing.T) {
	s, out, errOut := newNative(t)
	if err := s.Exec(context.Background(), ":l libm.so.6"); err != nil {
		t.Skipf("libm unavailable: %s", errOut.String())
	}
	for _, line := range []string{":f", "sin 0.0", "sin 0"} {
		if err := s.Exec(context.Background(), line); err != nil {
			t.Fatalf("Exec(%q): %v\n%s", line, err, errOut.String())
		}
	}
	if out.String() != "0\n0\n" {
		t.Fatalf("sin results = %q", out.String())
	}
}

func TestNativeStrlen(t *testing.T) {
	s, out, errOut := newNative(t)
	if err := s.Exec(context.Background(), `strlen "hi"`); err != nil {
		t.Fatalf("strlen: %v\n%s", err, errOut.String())
	}
	if out.String() != "2\n" {
		t.Fatalf("strlen = %q", out.String())
	}
}

func TestNativeUnresolved(t *testing.T) {
	s, out, errOut := newNative(t)
	err := s.Exec(context.Background(), "nope")
	var le *LineError
	if !errors.As(err, &le) || le.Codes()[0] != diag.SymUnresolved {
		t.Fatalf("nope = %v", err)
	}
	if !strings.Contains(errOut.String(), registry.DefaultLibrary()) {
		t.Fatalf("searched libraries missing:\n%s", errOut.String())
	}
	if err := s.Exec(context.Background(), "getpid"); err != nil {
		t.Fatalf("next line failed: %v", err)
	}
	if out.Len() == 0 {
		t.Fatal("getpid printed nothing")
	}
}

func TestNativeStringResult(t *testing.T) {
	s, out, errOut := newNative(t)
	if err := s.Exec(context.Background(), ":s"); err != nil {
		t.Fatal(err)
	}
	if err := s.Exec(context.Background(), `strchr "hello" 'l'`); err != nil {
		t.Fatalf("strchr: %v\n%s", err, errOut.String())
	}
	if out.String() != "llo\n" {
		t.Fatalf("strchr = %q", out.String())
	}
}
