package ffi

import (
	"sync"
	"unsafe"

	"crepl/internal/callconv"
	"crepl/internal/ctype"
)

// Backend names the call engine compiled into this binary.
func Backend() string {
	if supported {
		return "libffi"
	}
	return "none (built without cgo)"
}

// Engine prepares libffi call interfaces.
type Engine struct{}

var _ callconv.Engine = Engine{}

func (Engine) Prepare(ret ctype.Tag, args []ctype.Tag) (callconv.Prepared, error) {
	if !supported {
		return nil, ErrUnsupported
	}
	c, types, st, err := cPrepCIF(ret, args)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &PrepError{Ret: ret, Args: append([]ctype.Tag(nil), args...), Status: st}
	}
	return &CIF{
		cif:   c,
		types: types,
		ret:   ret,
		args:  append([]ctype.Tag(nil), args...),
	}, nil
}

// CIF is a prepared ffi_cif plus the type vector it points into.
type CIF struct {
	once  sync.Once
	cif   unsafe.Pointer
	types unsafe.Pointer
	ret   ctype.Tag
	args  []ctype.Tag
}

func (c *CIF) Ret() ctype.Tag    { return c.ret }
func (c *CIF) Args() []ctype.Tag { return c.args }

// Call blocks until the native function returns. There is no timeout.
func (c *CIF) Call(fn, ret unsafe.Pointer, args []unsafe.Pointer) {
	if len(args) != len(c.args) {
		panic("ffi: argument vector does not match the prepared signature")
	}
	cCall(c.cif, fn, ret, args)
}

func (c *CIF) Release() {
	c.once.Do(func() {
		cFree(c.cif)
		cFree(c.types)
		c.cif, c.types = nil, nil
	})
}
