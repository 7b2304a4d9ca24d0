// Package literal converts numeric lexemes into Go values.
package literal

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrRange means the literal does not fit in 64 bits.
	ErrRange = errors.New("value out of range")
	// ErrSyntax means the lexeme is not a numeric literal.
	ErrSyntax = errors.New("invalid numeric literal")
)

// NumError records the failing lexeme.
type NumError struct {
	Text string
	Err  error
}

func (e *NumError) Error() string {
	return fmt.Sprintf("literal %q: %v", e.Text, e.Err)
}

func (e *NumError) Unwrap() error { return e.Err }

// ParseInt understands an optional sign followed by 0x/0X hex, 0b/0B binary,
// a leading 0 for octal, or plain decimal. The result must fit in int64.
func ParseInt(text string) (int64, error) {
	neg, body := splitSign(text)
	base, digits := splitRadix(body)
	if digits == "" {
		return 0, &NumError{Text: text, Err: ErrSyntax}
	}
	u, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		return 0, &NumError{Text: text, Err: classify(err)}
	}
	if neg {
		if u > uint64(math.MaxInt64)+1 {
			return 0, &NumError{Text: text, Err: ErrRange}
		}
		return -int64(u), nil //nolint:gosec // bounds checked above
	}
	if u > math.MaxInt64 {
		return 0, &NumError{Text: text, Err: ErrRange}
	}
	return int64(u), nil
}

// ParseFloat parses a decimal float literal. "1." and ".5" are accepted.
func ParseFloat(text string) (float64, error) {
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, &NumError{Text: text, Err: classify(err)}
	}
	return f, nil
}

func splitSign(text string) (neg bool, body string) {
	switch {
	case strings.HasPrefix(text, "-"):
		return true, text[1:]
	case strings.HasPrefix(text, "+"):
		return false, text[1:]
	default:
		return false, text
	}
}

func splitRadix(body string) (int, string) {
	if len(body) >= 2 && body[0] == '0' {
		switch body[1] {
		case 'x', 'X':
			return 16, body[2:]
		case 'b', 'B':
			return 2, body[2:]
		default:
			return 8, body[1:]
		}
	}
	return 10, body
}

func classify(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
		return ErrRange
	}
	return ErrSyntax
}
