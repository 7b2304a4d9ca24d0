// Package marshal lays argument values out in native storage for a call.
package marshal

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
	"unsafe"

	"fortio.org/safecast"

	"crepl/internal/callconv"
	"crepl/internal/ctype"
	"crepl/internal/diag"
	"crepl/internal/expr"
	"crepl/internal/literal"
	"crepl/internal/sig"
	"crepl/internal/source"
	"crepl/internal/token"
)

// slotSize is the minimum size of every argument slot.
const slotSize = 8

// Error is a value that cannot be encoded at its inferred tag.
type Error struct {
	code diag.Code
	span source.Span
	Msg  string
}

func (e *Error) Error() string     { return e.Msg }
func (e *Error) Code() diag.Code   { return e.code }
func (e *Error) Span() source.Span { return e.span }

// Frame owns the storage of one call. Values()[i] is the address libffi
// reads argument i from. Release must run after the call returns.
type Frame struct {
	alloc  callconv.Allocator
	values []unsafe.Pointer
	owned  []unsafe.Pointer
}

func (f *Frame) Values() []unsafe.Pointer { return f.values }

// Len reports the number of argument slots.
func (f *Frame) Len() int { return len(f.values) }

// Release frees every allocation. Safe to call twice.
func (f *Frame) Release() {
	for i := len(f.owned) - 1; i >= 0; i-- {
		f.alloc.Free(f.owned[i])
	}
	f.owned = nil
	f.values = nil
}

func (f *Frame) allocate(n int, sp source.Span) (unsafe.Pointer, error) {
	p, err := f.alloc.Alloc(n)
	if err != nil {
		return nil, &Error{code: diag.MarOutOfMemory, span: sp, Msg: fmt.Sprintf("cannot allocate %d bytes: %v", n, err)}
	}
	f.owned = append(f.owned, p)
	return p, nil
}

// Marshal encodes args in order. On error everything allocated so far is
// released and no Frame is returned.
func Marshal(alloc callconv.Allocator, args []sig.Argument) (*Frame, error) {
	f := &Frame{alloc: alloc, values: make([]unsafe.Pointer, 0, len(args))}
	for i, a := range args {
		p, err := f.encode(a)
		if err != nil {
			f.Release()
			var me *Error
			if errors.As(err, &me) {
				me.Msg = fmt.Sprintf("argument %d: %s", i+1, me.Msg)
			}
			return nil, err
		}
		f.values = append(f.values, p)
	}
	return f, nil
}

func (f *Frame) encode(a sig.Argument) (unsafe.Pointer, error) {
	switch {
	case a.Tag == ctype.Pointer:
		s, err := stringOf(a)
		if err != nil {
			return nil, err
		}
		return f.cstring(s, a.Span)
	case a.Tag.Integer():
		v, err := integerOf(a)
		if err != nil {
			return nil, err
		}
		slot, err := f.allocate(slotSize, a.Span)
		if err != nil {
			return nil, err
		}
		if err := storeInt(slot, a.Tag, v); err != nil {
			return nil, &Error{code: diag.MarOverflow, span: a.Span, Msg: fmt.Sprintf("%d does not fit in %s", v, a.Tag)}
		}
		return slot, nil
	case a.Tag.Float():
		v, err := floatOf(a)
		if err != nil {
			return nil, err
		}
		slot, err := f.allocate(slotSize, a.Span)
		if err != nil {
			return nil, err
		}
		if a.Tag == ctype.Float32 {
			if math.Abs(v) > math.MaxFloat32 && !math.IsInf(v, 0) {
				return nil, &Error{code: diag.MarOverflow, span: a.Span, Msg: fmt.Sprintf("%g does not fit in float", v)}
			}
			*(*float32)(slot) = float32(v)
		} else {
			*(*float64)(slot) = v
		}
		return slot, nil
	default:
		return nil, &Error{code: diag.SigUnsupported, span: a.Span, Msg: fmt.Sprintf("cannot pass a %s argument", a.Tag)}
	}
}

// cstring allocates the NUL-terminated buffer and the pointer-sized slot
// holding its address; the call receives the slot.
func (f *Frame) cstring(s string, sp source.Span) (unsafe.Pointer, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		return nil, &Error{code: diag.MarEmbeddedNUL, span: sp, Msg: fmt.Sprintf("string has an embedded NUL at byte %d", i)}
	}
	buf, err := f.allocate(len(s)+1, sp)
	if err != nil {
		return nil, err
	}
	dst := unsafe.Slice((*byte)(buf), len(s)+1)
	copy(dst, s)
	dst[len(s)] = 0

	slot, err := f.allocate(slotSize, sp)
	if err != nil {
		return nil, err
	}
	*(*unsafe.Pointer)(slot) = buf
	return slot, nil
}

func stringOf(a sig.Argument) (string, error) {
	if a.FromVar() {
		if a.Val.Kind != expr.CString {
			return "", mismatch(a)
		}
		return a.Val.S, nil
	}
	if a.Lit.Kind != token.StringLit {
		return "", mismatch(a)
	}
	return a.Lit.Text, nil
}

func integerOf(a sig.Argument) (int64, error) {
	if a.FromVar() {
		switch a.Val.Kind {
		case expr.Integer:
			return a.Val.I, nil
		case expr.Bool:
			if a.Val.B {
				return 1, nil
			}
			return 0, nil
		case expr.CChar:
			return charCode(a.Val.C, a.Span)
		}
		return 0, mismatch(a)
	}
	switch a.Lit.Kind {
	case token.IntLit:
		v, err := literal.ParseInt(a.Lit.Text)
		if err != nil {
			code := diag.MarBadLiteral
			if errors.Is(err, literal.ErrRange) {
				code = diag.MarOverflow
			}
			return 0, &Error{code: code, span: a.Span, Msg: fmt.Sprintf("%s does not fit in %s", a.Lit.Text, a.Tag)}
		}
		return v, nil
	case token.CharLit:
		text := a.Lit.Text
		if len(text) == 1 {
			return int64(int8(text[0])), nil //nolint:gosec // '\xff' is -1, as in C
		}
		r, size := utf8.DecodeRuneInString(text)
		if r == utf8.RuneError || size != len(text) {
			return 0, &Error{code: diag.MarBadLiteral, span: a.Span, Msg: "character literal must hold one character"}
		}
		return charCode(r, a.Span)
	}
	return 0, mismatch(a)
}

// charCode admits ASCII only: a char argument is one signed byte.
func charCode(r rune, sp source.Span) (int64, error) {
	c, err := safecast.Conv[int8](r)
	if err != nil {
		return 0, &Error{code: diag.MarOverflow, span: sp, Msg: fmt.Sprintf("character %q does not fit in a signed char", r)}
	}
	return int64(c), nil
}

func floatOf(a sig.Argument) (float64, error) {
	if a.FromVar() {
		switch a.Val.Kind {
		case expr.Number:
			return a.Val.F, nil
		case expr.Integer:
			return float64(a.Val.I), nil
		}
		return 0, mismatch(a)
	}
	switch a.Lit.Kind {
	case token.FloatLit:
		v, err := literal.ParseFloat(a.Lit.Text)
		if err != nil {
			code := diag.MarBadLiteral
			if errors.Is(err, literal.ErrRange) {
				code = diag.MarOverflow
			}
			return 0, &Error{code: code, span: a.Span, Msg: fmt.Sprintf("%s is not a representable double", a.Lit.Text)}
		}
		return v, nil
	case token.IntLit:
		v, err := integerOf(a)
		return float64(v), err
	}
	return 0, mismatch(a)
}

func mismatch(a sig.Argument) error {
	what := a.Lit.Kind.String()
	if a.FromVar() {
		what = a.Val.Kind.String()
	}
	return &Error{code: diag.MarBadLiteral, span: a.Span, Msg: fmt.Sprintf("cannot encode %s as %s", what, a.Tag)}
}

// storeInt writes v at the width of tag; the rest of the slot stays zero.
func storeInt(slot unsafe.Pointer, tag ctype.Tag, v int64) error {
	switch tag {
	case ctype.SInt8:
		n, err := safecast.Conv[int8](v)
		*(*int8)(slot) = n
		return err
	case ctype.SInt16:
		n, err := safecast.Conv[int16](v)
		*(*int16)(slot) = n
		return err
	case ctype.SInt32:
		n, err := safecast.Conv[int32](v)
		*(*int32)(slot) = n
		return err
	case ctype.SInt64:
		*(*int64)(slot) = v
		return nil
	case ctype.UInt8:
		n, err := safecast.Conv[uint8](v)
		*(*uint8)(slot) = n
		return err
	case ctype.UInt16:
		n, err := safecast.Conv[uint16](v)
		*(*uint16)(slot) = n
		return err
	case ctype.UInt32:
		n, err := safecast.Conv[uint32](v)
		*(*uint32)(slot) = n
		return err
	case ctype.UInt64:
		n, err := safecast.Conv[uint64](v)
		*(*uint64)(slot) = n
		return err
	}
	return fmt.Errorf("not an integer tag: %s", tag)
}
