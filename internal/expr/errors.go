package expr

import (
	"fmt"

	"crepl/internal/diag"
	"crepl/internal/source"
)

// Error is an evaluation or parse failure anchored to the command line.
type Error struct {
	code diag.Code
	span source.Span
	Msg  string
}

func (e *Error) Error() string     { return e.Msg }
func (e *Error) Code() diag.Code   { return e.code }
func (e *Error) Span() source.Span { return e.span }

func errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{code: code, span: sp, Msg: fmt.Sprintf(format, args...)}
}
