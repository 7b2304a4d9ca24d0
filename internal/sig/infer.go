// Package sig infers native argument types from command-line operands and
// builds the call signature for a single invocation.
package sig

import (
	"fmt"

	"crepl/internal/ctype"
	"crepl/internal/diag"
	"crepl/internal/expr"
	"crepl/internal/source"
	"crepl/internal/token"
)

// MaxArgs bounds the arity of a single call.
const MaxArgs = 64

// Argument is one operand with its inferred tag. Literal operands keep the
// token so the marshaler parses them at the tag's width; variable operands
// carry the evaluated value.
type Argument struct {
	Tag  ctype.Tag
	Lit  token.Token
	Val  expr.Value
	Var  string // имя переменной, если операнд из env
	Span source.Span
}

func (a Argument) FromVar() bool { return a.Var != "" }

// Error is a signature failure tied to an operand.
type Error struct {
	code diag.Code
	span source.Span
	Msg  string
	Err  error
}

func (e *Error) Error() string     { return e.Msg }
func (e *Error) Unwrap() error     { return e.Err }
func (e *Error) Code() diag.Code   { return e.code }
func (e *Error) Span() source.Span { return e.span }

// TagFor maps a literal token kind to its argument tag.
func TagFor(k token.Kind) (ctype.Tag, bool) {
	switch k {
	case token.StringLit:
		return ctype.Pointer, true
	case token.IntLit:
		return ctype.SInt64, true
	case token.FloatLit:
		return ctype.Float64, true
	case token.CharLit:
		return ctype.SInt8, true
	default:
		return ctype.Void, false
	}
}

// TagForValue maps an evaluated variable to its argument tag.
func TagForValue(v expr.Value) ctype.Tag {
	switch v.Kind {
	case expr.Number:
		return ctype.Float64
	case expr.CString:
		return ctype.Pointer
	case expr.CChar:
		return ctype.SInt8
	default: // Integer, Bool
		return ctype.SInt64
	}
}

// Infer assigns a tag to every operand, in order. Identifiers are looked up
// in env. Any operand kind without a mapping fails the whole signature.
func Infer(operands []token.Token, env *expr.Env) ([]Argument, error) {
	if len(operands) > MaxArgs {
		sp := operands[MaxArgs].Span.Cover(operands[len(operands)-1].Span)
		return nil, &Error{code: diag.SigTooManyArgs, span: sp, Msg: fmt.Sprintf("too many arguments: %d, at most %d are supported", len(operands), MaxArgs)}
	}
	args := make([]Argument, 0, len(operands))
	for i, tok := range operands {
		if tag, ok := TagFor(tok.Kind); ok {
			args = append(args, Argument{Tag: tag, Lit: tok, Span: tok.Span})
			continue
		}
		if tok.Kind == token.Ident {
			var (
				b  expr.Binding
				ok bool
			)
			if env != nil {
				b, ok = env.Lookup(tok.Text)
			}
			if !ok {
				return nil, &Error{code: diag.SigNoMapping, span: tok.Span, Msg: fmt.Sprintf("argument %d: %q is not a defined variable or constant", i+1, tok.Text)}
			}
			args = append(args, Argument{Tag: TagForValue(b.Value), Val: b.Value, Var: tok.Text, Span: tok.Span})
			continue
		}
		return nil, &Error{code: diag.SigNoMapping, span: tok.Span, Msg: fmt.Sprintf("argument %d: %s %q has no native argument type", i+1, describe(tok.Kind), tok.Text)}
	}
	return args, nil
}

func describe(k token.Kind) string {
	switch k {
	case token.FileName:
		return "file name"
	case token.Command:
		return "command"
	default:
		if (token.Token{Kind: k}).IsOperator() {
			return "operator"
		}
		return k.String()
	}
}

// Tags extracts the tag list in argument order.
func Tags(args []Argument) []ctype.Tag {
	out := make([]ctype.Tag, len(args))
	for i, a := range args {
		out[i] = a.Tag
	}
	return out
}
