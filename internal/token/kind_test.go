package token_test

import (
	"testing"

	"crepl/internal/source"
	"crepl/internal/token"
)

func tok(k token.Kind, text string) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}, Text: text}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{token.StringLit, token.FloatLit, token.IntLit, token.CharLit}
	for _, k := range lits {
		if !tok(k, "").IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.FileName, token.Plus, token.Command}
	for _, k := range non {
		if tok(k, "").IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsOperator(t *testing.T) {
	ops := []token.Kind{
		token.LParen, token.RParen, token.Minus, token.Plus, token.Star, token.Slash,
		token.EqEq, token.BangEq, token.LtEq, token.Lt, token.GtEq, token.Gt, token.Bang,
	}
	for _, k := range ops {
		if !tok(k, "").IsOperator() {
			t.Fatalf("%v should be an operator", k)
		}
	}
	if tok(token.IntLit, "1").IsOperator() {
		t.Fatalf("IntLit must not be an operator")
	}
}

func TestIsSignedNumber(t *testing.T) {
	cases := []struct {
		tok  token.Token
		want bool
	}{
		{tok(token.IntLit, "-5"), true},
		{tok(token.FloatLit, "+1.5"), true},
		{tok(token.IntLit, "5"), false},
		{tok(token.Minus, "-"), false},
		{tok(token.StringLit, "-x"), false},
	}
	for _, c := range cases {
		if got := c.tok.IsSignedNumber(); got != c.want {
			t.Errorf("IsSignedNumber(%v %q) = %v, want %v", c.tok.Kind, c.tok.Text, got, c.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.StringLit.String() != "StringLit" {
		t.Fatalf("StringLit.String() = %q", token.StringLit.String())
	}
	if token.Kind(250).String() != "Kind(?)" {
		t.Fatalf("unknown kind should stringify as Kind(?)")
	}
}

func TestLookupDirective(t *testing.T) {
	cases := map[string]token.Directive{
		":l":     token.DirLoad,
		":ul":    token.DirUnload,
		":ls":    token.DirList,
		":d":     token.DirModeInt,
		":f":     token.DirModeFloat,
		":c":     token.DirModeChar,
		":v":     token.DirModeVoid,
		":s":     token.DirModeString,
		":r":     token.DirRedisplay,
		":const": token.DirConst,
		":var":   token.DirVar,
		":pa":    token.DirShowAll,
	}
	for text, want := range cases {
		got, ok := token.LookupDirective(text)
		if !ok || got != want {
			t.Fatalf("LookupDirective(%q) = %v,%v want %v", text, got, ok, want)
		}
		if want.Spelling() != text {
			t.Fatalf("Spelling(%v) = %q, want %q", want, want.Spelling(), text)
		}
	}
	for _, bad := range []string{":L", ":load", ":", "l"} {
		if _, ok := token.LookupDirective(bad); ok {
			t.Fatalf("LookupDirective(%q) must fail", bad)
		}
	}
}
