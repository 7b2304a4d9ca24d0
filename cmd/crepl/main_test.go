package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"crepl/internal/ffi"
	"crepl/internal/registry"
	"crepl/internal/version"
)

// execute runs the root command with args and isolated config/streams.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReadUIMode(t *testing.T) {
	cases := map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff}
	for in, want := range cases {
		got, err := readUIMode(in)
		if err != nil || got != want {
			t.Fatalf("readUIMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := readUIMode("sometimes"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
	if !switchEnabled(uiModeOn, nil) || switchEnabled(uiModeOff, nil) {
		t.Fatal("explicit modes must not look at the terminal")
	}
}

func TestTokenizePretty(t *testing.T) {
	out, errOut, err := execute(t, "tokenize", "--format", "pretty", "strlen", `"hi"`)
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	want := "  1: Ident      \"strlen\" at 0-6\n  2: StringLit  \"hi\" at 7-11\n"
	if out != want {
		t.Fatalf("tokens:\n%q\nwant:\n%q", out, want)
	}
	if errOut != "" {
		t.Fatalf("unexpected diagnostics: %s", errOut)
	}
}

func TestTokenizeJSONWithDiagnostics(t *testing.T) {
	out, errOut, err := execute(t, "tokenize", "--format", "json", ":l", "§", "libm.so.6")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []struct {
		Kind string `json:"kind"`
		Text string `json:"text"`
		Dir  string `json:"directive"`
	}
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(toks) != 2 || toks[0].Kind != "Command" || toks[1].Kind != "FileName" {
		t.Fatalf("tokens = %+v", toks)
	}
	if !strings.Contains(errOut, "error") {
		t.Fatalf("expected a diagnostic for the stray byte, got %q", errOut)
	}
}

func TestTokenizeUnknownFormat(t *testing.T) {
	if _, _, err := execute(t, "tokenize", "--format", "xml", "x"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestVersionJSON(t *testing.T) {
	old := version.GitCommit
	version.GitCommit = "abc123"
	t.Cleanup(func() { version.GitCommit = old })

	var buf bytes.Buffer
	info := collectVersionInfo()
	if err := renderVersionJSON(&buf, info, versionOptions{format: "json", showHash: true}); err != nil {
		t.Fatalf("renderVersionJSON: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "crepl" || payload.GitCommit != "abc123" || payload.BuildDate != "" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Backend != ffi.Backend() || payload.DefaultLib != registry.DefaultLibrary() {
		t.Fatalf("runtime fields = %+v", payload)
	}
}

func TestVersionPretty(t *testing.T) {
	var buf bytes.Buffer
	renderVersionPretty(&buf, versionInfo{Version: "1.2.3", Backend: "libffi"}, versionOptions{showDate: true})
	for _, want := range []string{"built:   unknown", "backend: libffi", "libc:    unknown"} {
		if !strings.Contains(buf.String(), want) {
			t.Fatalf("output missing %q: %q", want, buf.String())
		}
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crepl.toml")
	data := "[session]\nmode = \"float\"\nmax_diagnostics = 5\n\n[libraries]\npreload = [\"libm.so.6\"]\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	flags := rootCmd.PersistentFlags()
	for name, value := range map[string]string{"config": path, "mode": "char", "lib": "libz.so.1", "color": "off"} {
		if err := flags.Set(name, value); err != nil {
			t.Fatalf("set %s: %v", name, err)
		}
	}
	t.Cleanup(func() {
		for _, name := range []string{"config", "mode", "color"} {
			_ = flags.Set(name, "")
		}
		_ = flags.Lookup("lib").Value.(interface{ Replace([]string) error }).Replace(nil)
	})

	st, err := loadSettings(rootCmd)
	if err != nil {
		t.Fatalf("loadSettings: %v", err)
	}
	if st.mode.String() != "char" || st.maxDiag != 5 || st.color {
		t.Fatalf("settings = %+v", st)
	}
	if strings.Join(st.preload, ",") != "libm.so.6,libz.so.1" {
		t.Fatalf("preload = %v", st.preload)
	}
}

func TestHoldWriter(t *testing.T) {
	var out bytes.Buffer
	h := &holdWriter{w: &out}
	_, _ = h.Write([]byte("early "))
	if out.Len() != 0 {
		t.Fatal("writes must be held until Release")
	}
	h.Release()
	_, _ = h.Write([]byte("late"))
	h.Release()
	if out.String() != "early late" {
		t.Fatalf("output = %q", out.String())
	}
}
