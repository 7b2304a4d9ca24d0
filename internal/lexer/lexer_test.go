package lexer

import (
	"testing"

	"crepl/internal/diag"
	"crepl/internal/source"
	"crepl/internal/token"
)

func lexLine(t *testing.T, text string) ([]token.Token, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(32)
	line := source.NewLine(1, text, source.LineInteractive)
	toks := Tokenize(line, Options{Reporter: &diag.BagReporter{Bag: bag}})
	return toks, bag
}

func kindsOf(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tk := range toks {
		out[i] = tk.Kind
	}
	return out
}

func expectKinds(t *testing.T, text string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, bag := lexLine(t, text)
	if bag.HasErrors() {
		t.Fatalf("%q: unexpected diagnostics: %v", text, bag.Codes())
	}
	got := kindsOf(toks)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v, want %v", text, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v, want %v (all: %v)", text, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestCallLine(t *testing.T) {
	toks := expectKinds(t, `printf "%d\n" 42 3.5 'x'`,
		token.Ident, token.StringLit, token.IntLit, token.FloatLit, token.CharLit)
	if toks[0].Text != "printf" {
		t.Fatalf("ident text = %q", toks[0].Text)
	}
	if toks[1].Text != "%d\n" {
		t.Fatalf("string text = %q, want escapes resolved", toks[1].Text)
	}
	if toks[4].Text != "x" {
		t.Fatalf("char text = %q", toks[4].Text)
	}
}

func TestIntegerForms(t *testing.T) {
	for _, text := range []string{"42", "0x2A", "0X2a", "0b101", "0B1", "017", "0", "-5", "+7", "-0x10"} {
		toks := expectKinds(t, text, token.IntLit)
		if toks[0].Text != text {
			t.Fatalf("%q: text = %q", text, toks[0].Text)
		}
	}
}

func TestFloatForms(t *testing.T) {
	for _, text := range []string{"3.14", "1.", ".5", "1e3", "1E-3", "2.5e+10", "-0.5", "+.25"} {
		expectKinds(t, text, token.FloatLit)
	}
}

func TestExponentNeedsDigits(t *testing.T) {
	expectKinds(t, "1 e", token.IntLit, token.Ident)
	toks, bag := lexLine(t, "1e")
	if !bag.HasErrors() || len(toks) != 0 {
		t.Fatalf("1e: want bad number, got %v / %v", kindsOf(toks), bag.Codes())
	}
}

func TestBadNumbers(t *testing.T) {
	for _, text := range []string{"0x", "0b", "089", "12abc", "0x1g"} {
		toks, bag := lexLine(t, text)
		if len(toks) != 0 {
			t.Fatalf("%q: expected no tokens, got %v", text, kindsOf(toks))
		}
		codes := bag.Codes()
		if len(codes) != 1 || codes[0] != diag.LexBadNumber {
			t.Fatalf("%q: codes = %v, want [LexBadNumber]", text, codes)
		}
	}
}

func TestFileNames(t *testing.T) {
	for _, text := range []string{"libm.so.6", "libc.so", "libSystem.B.dylib", "libstdc++.so.6", "/usr/lib/libm.so.6", "./libfoo.so", "~/lib/libbar.so.1.2"} {
		toks := expectKinds(t, text, token.FileName)
		if toks[0].Text != text {
			t.Fatalf("%q: text = %q", text, toks[0].Text)
		}
	}
}

func TestSlashStaysOperatorInExpressions(t *testing.T) {
	expectKinds(t, "x/2", token.Ident, token.Slash, token.IntLit)
	expectKinds(t, "10 /2.5", token.IntLit, token.Slash, token.FloatLit)
	expectKinds(t, "a-1", token.Ident, token.IntLit)
}

func TestOperators(t *testing.T) {
	expectKinds(t, "( ) - + * / == != <= < >= > !",
		token.LParen, token.RParen, token.Minus, token.Plus, token.Star, token.Slash,
		token.EqEq, token.BangEq, token.LtEq, token.Lt, token.GtEq, token.Gt, token.Bang)
}

func TestCommands(t *testing.T) {
	cases := []struct {
		text string
		dir  token.Directive
	}{
		{":l", token.DirLoad},
		{":ls", token.DirList},
		{":ul", token.DirUnload},
		{":p", token.DirModeAddress},
		{":pa", token.DirShowAll},
		{":const", token.DirConst},
		{":var", token.DirVar},
		{":q", token.DirQuit},
	}
	for _, tc := range cases {
		toks := expectKinds(t, tc.text, token.Command)
		if got := toks[0].Directive(); got != tc.dir {
			t.Fatalf("%q: directive = %v, want %v", tc.text, got, tc.dir)
		}
	}
	expectKinds(t, ":l libm.so.6", token.Command, token.FileName)
	expectKinds(t, `:l "libm.so.6"`, token.Command, token.StringLit)
}

func TestUnknownCommand(t *testing.T) {
	toks, bag := lexLine(t, ":zap 1")
	if got := kindsOf(toks); len(got) != 1 || got[0] != token.IntLit {
		t.Fatalf("tokens = %v", got)
	}
	if codes := bag.Codes(); len(codes) != 1 || codes[0] != diag.LexUnknownCommand {
		t.Fatalf("codes = %v", codes)
	}
}

func TestUnknownCharContinues(t *testing.T) {
	toks, bag := lexLine(t, "abs @ -3 § 4")
	got := kindsOf(toks)
	want := []token.Kind{token.Ident, token.IntLit, token.IntLit}
	if len(got) != len(want) {
		t.Fatalf("tokens = %v, want %v", got, want)
	}
	codes := bag.Codes()
	if len(codes) != 2 || codes[0] != diag.LexUnknownChar || codes[1] != diag.LexUnknownChar {
		t.Fatalf("codes = %v", codes)
	}
	// многобайтовая руна должна попасть в span целиком
	items := bag.Items()
	if sp := items[1].Primary; sp.Len() != 2 {
		t.Fatalf("span of § = %v", sp)
	}
}

func TestStringEscapes(t *testing.T) {
	cases := map[string]string{
		`"hi"`:          "hi",
		`"a\tb"`:        "a\tb",
		`"q\"q"`:        `q"q`,
		`"\x41\102"`:    "AB",
		`"back\\slash"`: `back\slash`,
		`""`:            "",
		`"nul\0x"`:      "nul\x00x",
	}
	for src, want := range cases {
		toks := expectKinds(t, src, token.StringLit)
		if toks[0].Text != want {
			t.Fatalf("%s: text = %q, want %q", src, toks[0].Text, want)
		}
	}
}

func TestStringErrors(t *testing.T) {
	toks, bag := lexLine(t, `puts "oops`)
	if len(toks) != 1 || bag.Codes()[0] != diag.LexUnterminatedString {
		t.Fatalf("unterminated: %v / %v", kindsOf(toks), bag.Codes())
	}

	toks, bag = lexLine(t, `"a\qb"`)
	if len(toks) != 1 || toks[0].Text != `a\qb` {
		t.Fatalf("bad escape should keep the token, got %v", toks)
	}
	if bag.Codes()[0] != diag.LexBadEscape {
		t.Fatalf("codes = %v", bag.Codes())
	}
}

func TestCharLiterals(t *testing.T) {
	for src, want := range map[string]string{`'a'`: "a", `'\n'`: "\n", `'\0'`: "\x00", `'\''`: "'", `'é'`: "é"} {
		toks := expectKinds(t, src, token.CharLit)
		if toks[0].Text != want {
			t.Fatalf("%s: text = %q, want %q", src, toks[0].Text, want)
		}
	}
	for _, src := range []string{`''`, `'ab'`, `'a`} {
		_, bag := lexLine(t, src)
		if codes := bag.Codes(); len(codes) == 0 || codes[0] != diag.LexBadChar {
			t.Fatalf("%s: codes = %v", src, codes)
		}
	}
}

func TestSpansCoverSource(t *testing.T) {
	toks := expectKinds(t, `  strlen "hi"`, token.Ident, token.StringLit)
	if toks[0].Span.Start != 2 || toks[0].Span.End != 8 {
		t.Fatalf("ident span = %v", toks[0].Span)
	}
	if toks[1].Span.Start != 9 || toks[1].Span.End != 13 {
		t.Fatalf("string span = %v", toks[1].Span)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx := New(source.NewLine(1, "a b", source.LineInteractive), Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("next = %q", n.Text)
	}
	for i := 0; i < 2; i++ {
		if n := lx.Next(); n.Kind != token.EOF {
			t.Fatalf("want EOF, got %v", n.Kind)
		}
	}
}
