package session

import (
	"errors"
	"fmt"

	"crepl/internal/diag"
	"crepl/internal/source"
)

// ErrQuit is returned by Exec for ":q".
var ErrQuit = errors.New("quit")

// LineError reports that a command line failed. Its diagnostics have
// already been rendered by the time Exec returns it.
type LineError struct {
	Line        source.Line
	Diagnostics []diag.Diagnostic
}

func (e *LineError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("line %d failed", e.Line.ID)
	}
	return fmt.Sprintf("line %d: %s", e.Line.ID, e.Diagnostics[0].Message)
}

// Codes lists the codes of the line's diagnostics in order.
func (e *LineError) Codes() []diag.Code {
	out := make([]diag.Code, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		out = append(out, d.Code)
	}
	return out
}

// cmdError is a malformed directive or call line.
type cmdError struct {
	code diag.Code
	span source.Span
	msg  string
}

func (e *cmdError) Error() string     { return e.msg }
func (e *cmdError) Code() diag.Code   { return e.code }
func (e *cmdError) Span() source.Span { return e.span }

func cmdErrorf(code diag.Code, sp source.Span, format string, args ...any) error {
	return &cmdError{code: code, span: sp, msg: fmt.Sprintf(format, args...)}
}

// located attaches a span to an error coming from a layer that does not know
// about the command line (registry, ffi).
type located struct {
	err  error
	span source.Span
}

func (e *located) Error() string     { return e.err.Error() }
func (e *located) Unwrap() error     { return e.err }
func (e *located) Span() source.Span { return e.span }

func at(err error, sp source.Span) error {
	if err == nil {
		return nil
	}
	return &located{err: err, span: sp}
}

// isWarning reports whether err is graded below SevError.
func isWarning(err error) bool {
	var g diag.Graded
	return errors.As(err, &g) && g.Severity() < diag.SevError
}

// splitJoined flattens an errors.Join result.
func splitJoined(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
