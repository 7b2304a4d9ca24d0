package diag

import (
	"errors"

	"crepl/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

// Coded is implemented by errors that carry a diagnostic code.
type Coded interface {
	error
	Code() Code
}

// Spanned is implemented by errors that point at a part of the command line.
type Spanned interface {
	Span() source.Span
}

// Noted is implemented by errors that carry secondary context.
type Noted interface {
	Notes() []Note
}

// Graded is implemented by errors that are not plain errors, such as warnings.
type Graded interface {
	Severity() Severity
}

// FromError converts err into an error diagnostic. Errors without a code map to
// UnknownCode; the whole chain is searched for Coded/Spanned/Noted.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: SevError, Code: UnknownCode, Message: err.Error()}
	var coded Coded
	if errors.As(err, &coded) {
		d.Code = coded.Code()
	}
	var spanned Spanned
	if errors.As(err, &spanned) {
		d.Primary = spanned.Span()
	}
	var graded Graded
	if errors.As(err, &graded) {
		d.Severity = graded.Severity()
	}
	var noted Noted
	if errors.As(err, &noted) {
		d.Notes = noted.Notes()
	}
	return d
}
