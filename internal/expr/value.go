// Package expr evaluates the small arithmetic language behind :const and :var.
package expr

import (
	"strconv"
)

// Kind classifies a Value.
type Kind uint8

const (
	Integer Kind = iota
	Number
	Bool
	CString
	CChar
)

var kindNames = [...]string{
	Integer: "Integer",
	Number:  "Number",
	Bool:    "Bool",
	CString: "CString",
	CChar:   "CChar",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the result of evaluating an expression.
type Value struct {
	Kind Kind
	I    int64
	F    float64
	B    bool
	S    string
	C    rune
}

func Int(v int64) Value    { return Value{Kind: Integer, I: v} }
func Num(v float64) Value  { return Value{Kind: Number, F: v} }
func Boolean(v bool) Value { return Value{Kind: Bool, B: v} }
func Str(v string) Value   { return Value{Kind: CString, S: v} }
func Char(v rune) Value    { return Value{Kind: CChar, C: v} }

// String renders v for :t and :pa.
func (v Value) String() string {
	switch v.Kind {
	case Integer:
		return strconv.FormatInt(v.I, 10)
	case Number:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.B)
	case CString:
		return strconv.Quote(v.S)
	case CChar:
		return strconv.QuoteRune(v.C)
	default:
		return "<invalid>"
	}
}

func (v Value) numeric() bool { return v.Kind == Integer || v.Kind == Number }

func (v Value) float() float64 {
	if v.Kind == Integer {
		return float64(v.I)
	}
	return v.F
}

func (v Value) truthy() (bool, bool) {
	switch v.Kind {
	case Bool:
		return v.B, true
	case Integer:
		return v.I != 0, true
	case Number:
		return v.F != 0, true
	default:
		return false, false
	}
}
