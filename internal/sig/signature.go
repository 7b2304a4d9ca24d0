package sig

import (
	"errors"
	"fmt"
	"unsafe"

	"crepl/internal/callconv"
	"crepl/internal/ctype"
	"crepl/internal/diag"
	"crepl/internal/source"
)

// Signature is a prepared call descriptor for one command line.
// It is never cached: arity and types change from line to line.
type Signature struct {
	ret      ctype.Tag
	args     []ctype.Tag
	prepared callconv.Prepared
}

// Build asks the engine to validate ret(args...). sp is reported on failure.
func Build(engine callconv.Engine, ret ctype.Tag, args []ctype.Tag, sp source.Span) (*Signature, error) {
	p, err := engine.Prepare(ret, args)
	if err != nil {
		code := diag.SigPrepFailed
		var coded diag.Coded
		if errors.As(err, &coded) {
			code = coded.Code()
		}
		return nil, &Error{code: code, span: sp, Msg: fmt.Sprintf("cannot build signature %s: %v", ctype.Sig(ret, args), err), Err: err}
	}
	return &Signature{ret: ret, args: append([]ctype.Tag(nil), args...), prepared: p}, nil
}

func (s *Signature) Ret() ctype.Tag    { return s.ret }
func (s *Signature) Args() []ctype.Tag { return s.args }
func (s *Signature) Arity() int        { return len(s.args) }
func (s *Signature) String() string    { return ctype.Sig(s.ret, s.args) }

// Call invokes fn with the marshaled argument addresses.
func (s *Signature) Call(fn, ret unsafe.Pointer, values []unsafe.Pointer) {
	s.prepared.Call(fn, ret, values)
}

func (s *Signature) Release() {
	if s.prepared != nil {
		s.prepared.Release()
		s.prepared = nil
	}
}
