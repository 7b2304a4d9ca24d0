// Package fakeconv provides in-process stand-ins for the native engine, so the
// call pipeline can be tested without cgo.
package fakeconv

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"crepl/internal/callconv"
	"crepl/internal/ctype"
)

// Func emulates a native function: it reads its arguments from args and
// writes its result into ret.
type Func func(args []unsafe.Pointer, ret unsafe.Pointer)

// Engine dispatches Call to Go functions registered under a fake address.
type Engine struct {
	mu    sync.Mutex
	funcs map[unsafe.Pointer]Func
	slots []*byte

	// Reject makes Prepare fail for signatures it returns true for.
	Reject func(ret ctype.Tag, args []ctype.Tag) bool

	Prepared int
	Released int
	Calls    int
}

func NewEngine() *Engine {
	return &Engine{funcs: make(map[unsafe.Pointer]Func)}
}

// Define registers fn and returns the address a symbol table should hand out for it.
func (e *Engine) Define(fn Func) unsafe.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	slot := new(byte)
	e.slots = append(e.slots, slot)
	addr := unsafe.Pointer(slot)
	e.funcs[addr] = fn
	return addr
}

// ErrRejected is returned by Prepare when Reject matches.
var ErrRejected = errors.New("fakeconv: signature rejected")

func (e *Engine) Prepare(ret ctype.Tag, args []ctype.Tag) (callconv.Prepared, error) {
	if e.Reject != nil && e.Reject(ret, args) {
		return nil, ErrRejected
	}
	e.mu.Lock()
	e.Prepared++
	e.mu.Unlock()
	return &prepared{engine: e, ret: ret, args: append([]ctype.Tag(nil), args...)}, nil
}

type prepared struct {
	engine *Engine
	ret    ctype.Tag
	args   []ctype.Tag
}

func (p *prepared) Ret() ctype.Tag    { return p.ret }
func (p *prepared) Args() []ctype.Tag { return p.args }

func (p *prepared) Call(fn, ret unsafe.Pointer, args []unsafe.Pointer) {
	p.engine.mu.Lock()
	f, ok := p.engine.funcs[fn]
	p.engine.Calls++
	p.engine.mu.Unlock()
	if !ok {
		panic(fmt.Sprintf("fakeconv: call through unknown address %p", fn))
	}
	if len(args) != len(p.args) {
		panic(fmt.Sprintf("fakeconv: %d arguments for a %d-argument signature", len(args), len(p.args)))
	}
	if p.ret == ctype.Void {
		var scratch [callconv.ResultSize]byte
		f(args, unsafe.Pointer(&scratch[0]))
		return
	}
	f(args, ret)
}

func (p *prepared) Release() {
	p.engine.mu.Lock()
	p.engine.Released++
	p.engine.mu.Unlock()
}

// Allocator serves zeroed Go memory and tracks what is still live.
type Allocator struct {
	mu   sync.Mutex
	live map[unsafe.Pointer][]byte

	// Fail makes the next Alloc calls fail while it is positive.
	Fail int
}

func NewAllocator() *Allocator {
	return &Allocator{live: make(map[unsafe.Pointer][]byte)}
}

// ErrExhausted is returned while Fail is positive.
var ErrExhausted = errors.New("fakeconv: out of memory")

func (a *Allocator) Alloc(size int) (unsafe.Pointer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.Fail > 0 {
		a.Fail--
		return nil, ErrExhausted
	}
	if size < 1 {
		size = 1
	}
	buf := make([]byte, size)
	p := unsafe.Pointer(&buf[0])
	a.live[p] = buf
	return p, nil
}

func (a *Allocator) Free(p unsafe.Pointer) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.live[p]; !ok {
		panic(fmt.Sprintf("fakeconv: free of unknown pointer %p", p))
	}
	delete(a.live, p)
}

// Live reports the number of outstanding allocations.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Flusher counts Flush calls.
type Flusher struct{ N int }

func (f *Flusher) Flush() { f.N++ }

// Helpers for writing Func bodies.

func ArgInt64(args []unsafe.Pointer, i int) int64     { return *(*int64)(args[i]) }
func ArgFloat64(args []unsafe.Pointer, i int) float64 { return *(*float64)(args[i]) }
func ArgInt8(args []unsafe.Pointer, i int) int8       { return *(*int8)(args[i]) }

// ArgCString reads the NUL-terminated string whose address sits in slot i.
func ArgCString(args []unsafe.Pointer, i int) string {
	p := *(*unsafe.Pointer)(args[i])
	if p == nil {
		return ""
	}
	var out []byte
	for off := uintptr(0); ; off++ {
		b := *(*byte)(unsafe.Add(p, off))
		if b == 0 {
			return string(out)
		}
		out = append(out, b)
	}
}

func SetInt64(ret unsafe.Pointer, v int64)     { *(*int64)(ret) = v }
func SetFloat64(ret unsafe.Pointer, v float64) { *(*float64)(ret) = v }
func SetPointer(ret unsafe.Pointer, v unsafe.Pointer) {
	*(*unsafe.Pointer)(ret) = v
}
