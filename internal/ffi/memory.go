package ffi

import (
	"errors"
	"unsafe"

	"crepl/internal/callconv"
)

// Heap allocates argument storage with calloc.
type Heap struct{}

var _ callconv.Allocator = Heap{}

var errOOM = errors.New("calloc failed")

func (Heap) Alloc(size int) (unsafe.Pointer, error) {
	if !supported {
		return nil, ErrUnsupported
	}
	if size < 1 {
		size = 1
	}
	p := cMalloc(size)
	if p == nil {
		return nil, errOOM
	}
	return p, nil
}

func (Heap) Free(p unsafe.Pointer) {
	if p != nil {
		cFree(p)
	}
}

// Stdio flushes every open C stream, so output of printf and friends
// shows up before the result line.
type Stdio struct{}

var _ callconv.Flusher = Stdio{}

func (Stdio) Flush() { cFlush() }
