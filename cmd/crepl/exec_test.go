//go:build cgo && linux

package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExecLines(t *testing.T) {
	out, errOut, err := execute(t, "exec", "--quiet", `strlen "hello"`, "abs -3")
	if err != nil {
		t.Fatalf("exec: %v\n%s", err, errOut)
	}
	if out != "5\n3\n" {
		t.Fatalf("stdout = %q", out)
	}
}

func TestExecScriptStrict(t *testing.T) {
	script := filepath.Join(t.TempDir(), "calls.crepl")
	if err := os.WriteFile(script, []byte(":l libm.so.6\n:f\nsin 0.0\nno_such_function\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	out, errOut, err := execute(t, "exec", "--quiet", "--strict", "--file", script)
	var exit *exitError
	if !errors.As(err, &exit) || exit.code != 2 {
		t.Fatalf("err = %v, want exit status 2", err)
	}
	if out != "0\n" {
		t.Fatalf("stdout = %q", out)
	}
	if !strings.Contains(errOut, "no_such_function") {
		t.Fatalf("stderr = %q", errOut)
	}
}
