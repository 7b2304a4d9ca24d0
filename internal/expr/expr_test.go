package expr

import (
	"errors"
	"math"
	"testing"

	"crepl/internal/diag"
	"crepl/internal/lexer"
	"crepl/internal/source"
	"crepl/internal/token"
)

func tokens(t *testing.T, text string) ([]token.Token, source.Span) {
	t.Helper()
	line := source.NewLine(1, text, source.LineInteractive)
	toks := lexer.Tokenize(line, lexer.Options{})
	return toks, source.Span{Line: 1, Start: line.Len(), End: line.Len()}
}

func eval(t *testing.T, env *Env, text string) (Value, error) {
	t.Helper()
	toks, end := tokens(t, text)
	n, err := Parse(toks, end)
	if err != nil {
		return Value{}, err
	}
	return Eval(n, env)
}

func mustEval(t *testing.T, env *Env, text string) Value {
	t.Helper()
	v, err := eval(t, env, text)
	if err != nil {
		t.Fatalf("%q: %v", text, err)
	}
	return v
}

func codeOf(err error) diag.Code {
	var coded diag.Coded
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return diag.UnknownCode
}

func TestArithmetic(t *testing.T) {
	env := NewEnv()
	cases := []struct {
		text string
		want Value
	}{
		{"1 + 2 * 3", Int(7)},
		{"(1 + 2) * 3", Int(9)},
		{"10 - 4 - 3", Int(3)},
		{"7 / 2", Num(3.5)},
		{"1.5 + 1", Num(2.5)},
		{"-3 * 2", Int(-6)},
		{"2 * -3", Int(-6)},
		{"5 -1", Int(4)},
		{"5-1", Int(4)},
		{"2 * 3 -1", Int(5)},
		{"- (2 + 3)", Int(-5)},
		{"0x10 + 0b11 + 017", Int(34)},
	}
	for _, tc := range cases {
		if got := mustEval(t, env, tc.text); got != tc.want {
			t.Fatalf("%q = %v (%s), want %v (%s)", tc.text, got, got.Kind, tc.want, tc.want.Kind)
		}
	}
}

func TestComparisonsAndLogic(t *testing.T) {
	env := NewEnv()
	cases := map[string]bool{
		"1 < 2":      true,
		"2 <= 2":     true,
		"3 > 4":      false,
		"1 == 1.0":   true,
		"1 != 2":     true,
		"2 != 2":     false,
		`"a" == "a"`: true,
		`"a" < "b"`:  true,
		"!0":         true,
		"!TRUE":      false,
		"1 + 1 == 2": true,
		"TRUE == 1":  false,
		"'a' == 'a'": true,
	}
	for text, want := range cases {
		got := mustEval(t, env, text)
		if got.Kind != Bool || got.B != want {
			t.Fatalf("%q = %v, want %v", text, got, want)
		}
	}
}

func TestStrings(t *testing.T) {
	env := NewEnv()
	if got := mustEval(t, env, `"ab" + "cd"`); got != Str("abcd") {
		t.Fatalf("concat = %v", got)
	}
	if got := mustEval(t, env, `"ab" + 'c'`); got != Str("abc") {
		t.Fatalf("string + char = %v", got)
	}
	if got := mustEval(t, env, `'x' * 3`); got != Str("xxx") {
		t.Fatalf("char repeat = %v", got)
	}
	if got := mustEval(t, env, `"ab" * 0`); got != Str("") {
		t.Fatalf("zero repeat = %v", got)
	}
}

func TestBuiltins(t *testing.T) {
	env := NewEnv()
	if got := mustEval(t, env, "PI"); got.Kind != Number || got.F != math.Pi {
		t.Fatalf("PI = %v", got)
	}
	if got := mustEval(t, env, "E * 1"); got.F != math.E {
		t.Fatalf("E = %v", got)
	}
}

func TestErrors(t *testing.T) {
	env := NewEnv()
	cases := map[string]diag.Code{
		"1 / 0":               diag.EvlDivByZero,
		"1.0 / 0.0":           diag.EvlDivByZero,
		"nope + 1":            diag.EvlUndefined,
		`"a" - 1`:             diag.EvlType,
		`-"a"`:                diag.EvlType,
		`!"a"`:                diag.EvlType,
		`"a" * -1`:            diag.EvlType,
		`"a" < 1`:             diag.EvlType,
		"(1 + 2":              diag.EvlSyntax,
		"1 2":                 diag.EvlSyntax,
		"1 +":                 diag.EvlSyntax,
		"*":                   diag.EvlSyntax,
		"9223372036854775808": diag.MarOverflow,
	}
	for text, want := range cases {
		_, err := eval(t, env, text)
		if err == nil {
			t.Fatalf("%q: expected error", text)
		}
		if got := codeOf(err); got != want {
			t.Fatalf("%q: code = %v, want %v (%v)", text, got, want, err)
		}
	}
}

func TestErrorSpans(t *testing.T) {
	env := NewEnv()
	_, err := eval(t, env, "1 + nope")
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("err = %v", err)
	}
	if sp := e.Span(); sp.Start != 4 || sp.End != 8 {
		t.Fatalf("span = %v", sp)
	}
}

func TestAssign(t *testing.T) {
	env := NewEnv()
	toks, end := tokens(t, "x 2 * 21")
	b, err := Assign(env, toks, false, end)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if b.Name != "x" || b.Value != Int(42) || b.Const {
		t.Fatalf("binding = %+v", b)
	}

	toks, end = tokens(t, "x x + 1")
	if _, err := Assign(env, toks, false, end); err != nil {
		t.Fatalf("reassign: %v", err)
	}
	if got, _ := env.Lookup("x"); got.Value != Int(43) {
		t.Fatalf("x = %v", got.Value)
	}

	toks, end = tokens(t, "LIMIT 10")
	if _, err := Assign(env, toks, true, end); err != nil {
		t.Fatalf("const: %v", err)
	}
	for text, want := range map[string]diag.Code{
		"LIMIT 11": diag.EvlConstAssign,
		"PI 3":     diag.EvlConstAssign,
	} {
		toks, end = tokens(t, text)
		if _, err := Assign(env, toks, false, end); codeOf(err) != want {
			t.Fatalf("var %q: err = %v", text, err)
		}
	}
	for text, want := range map[string]diag.Code{
		"LIMIT 11": diag.EvlRedefined,
		"x 1":      diag.EvlRedefined,
		"":         diag.CmdUsage,
		"y":        diag.CmdUsage,
		"3 4":      diag.CmdExpected,
	} {
		toks, end = tokens(t, text)
		if _, err := Assign(env, toks, true, end); codeOf(err) != want {
			t.Fatalf("const %q: err = %v, want %v", text, err, want)
		}
	}
}

func TestAllSorted(t *testing.T) {
	env := NewEnv()
	_ = env.SetVar("b", Int(1), source.Span{})
	_ = env.SetVar("a", Int(2), source.Span{})
	vars, consts := env.All()
	if len(vars) != 2 || vars[0].Name != "a" || vars[1].Name != "b" {
		t.Fatalf("vars = %+v", vars)
	}
	if len(consts) != 4 || consts[0].Name != "E" || !consts[0].Const {
		t.Fatalf("consts = %+v", consts)
	}
}

func TestValueString(t *testing.T) {
	cases := map[string]Value{
		"42":    Int(42),
		"3.5":   Num(3.5),
		"true":  Boolean(true),
		`"a\n"`: Str("a\n"),
		"'x'":   Char('x'),
	}
	for want, v := range cases {
		if got := v.String(); got != want {
			t.Fatalf("String() = %q, want %q", got, want)
		}
	}
}
