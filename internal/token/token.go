package token

import (
	"crepl/internal/source"
)

// Token represents a single lexeme of a command line.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsLiteral reports whether the token is a string, number or char literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case StringLit, FloatLit, IntLit, CharLit:
		return true
	default:
		return false
	}
}

// IsOperator reports whether the token is one of the expression operators.
func (t Token) IsOperator() bool {
	switch t.Kind {
	case LParen, RParen, Minus, Plus, Star, Slash, EqEq, BangEq, LtEq, Lt, GtEq, Gt, Bang:
		return true
	default:
		return false
	}
}

// IsSignedNumber reports whether a numeric literal carries an explicit sign.
func (t Token) IsSignedNumber() bool {
	if t.Kind != IntLit && t.Kind != FloatLit {
		return false
	}
	return len(t.Text) > 1 && (t.Text[0] == '-' || t.Text[0] == '+')
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// Directive returns the command directive for Command tokens and DirNone otherwise.
func (t Token) Directive() Directive {
	if t.Kind != Command {
		return DirNone
	}
	d, _ := LookupDirective(t.Text)
	return d
}
