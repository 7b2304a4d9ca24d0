package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"crepl/internal/diag"
	"crepl/internal/lexer"
	"crepl/internal/source"
)

func TestPrettyCaret(t *testing.T) {
	line := source.NewLine(1, `strlen "a" nope`, source.LineInteractive)
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.SymUnresolved,
		Message:  `symbol "nope" not found`,
		Primary:  source.Span{Line: 1, Start: 11, End: 15},
		Notes:    []diag.Note{{Msg: "searched: libc.so.6"}},
	})

	var buf bytes.Buffer
	Pretty(&buf, bag, line, PrettyOpts{Echo: true, ShowNotes: true})
	want := strings.Join([]string{
		`error SYM3001: symbol "nope" not found`,
		`  | strlen "a" nope`,
		`  |            ^~~~`,
		`  = note: searched: libc.so.6`,
		``,
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyNoSpanNoEcho(t *testing.T) {
	line := source.NewLine(1, ":ls", source.LineInteractive)
	bag := diag.NewBag(10)
	bag.Add(diag.Diagnostic{Severity: diag.SevWarning, Code: diag.LibUnloadFailed, Message: "dlclose failed"})

	var buf bytes.Buffer
	Pretty(&buf, bag, line, PrettyOpts{Echo: true, ShowNotes: true})
	if got := buf.String(); got != "warning LIB2005: dlclose failed\n" {
		t.Fatalf("got %q", got)
	}
}

func TestUnderlineWidth(t *testing.T) {
	cases := map[int]string{0: "^", 1: "^", 4: "^~~~"}
	for width, want := range cases {
		if got := Underline(width); got != want {
			t.Errorf("Underline(%d) = %q, want %q", width, got, want)
		}
	}
}

func TestJSONLocation(t *testing.T) {
	line := source.NewLine(2, "puts 1e999x", source.LineScripted)
	bag := diag.NewBag(10)
	lexer.Tokenize(line, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	if bag.Len() == 0 {
		t.Fatal("expected a lexer diagnostic")
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, line, JSONOpts{IncludeText: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != bag.Len() || out.Diagnostics[0].Location == nil {
		t.Fatalf("unexpected output: %+v", out)
	}
	if out.Diagnostics[0].Location.Line != 2 {
		t.Fatalf("line = %d, want 2", out.Diagnostics[0].Location.Line)
	}
}

func TestFormatTokensPretty(t *testing.T) {
	line := source.NewLine(1, ":l libm.so.6", source.LineInteractive)
	toks := lexer.Tokenize(line, lexer.Options{})
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks); err != nil {
		t.Fatalf("FormatTokensPretty: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "Command") || !strings.Contains(got, `"libm.so.6"`) || !strings.Contains(got, "(:l)") {
		t.Fatalf("unexpected token dump:\n%s", got)
	}
}
