package expr

import (
	"crepl/internal/source"
	"crepl/internal/token"
)

// Node is a parsed expression.
type Node interface {
	Span() source.Span
}

// Lit is a literal value.
type Lit struct {
	Val Value
	Sp  source.Span
}

// Ref names a variable or constant.
type Ref struct {
	Name string
	Sp   source.Span
}

// Unary is -X or !X.
type Unary struct {
	Op token.Kind
	X  Node
	Sp source.Span
}

// Binary is L op R.
type Binary struct {
	Op   token.Kind
	L, R Node
	OpSp source.Span
}

func (n *Lit) Span() source.Span    { return n.Sp }
func (n *Ref) Span() source.Span    { return n.Sp }
func (n *Unary) Span() source.Span  { return n.Sp }
func (n *Binary) Span() source.Span { return n.L.Span().Cover(n.R.Span()) }
