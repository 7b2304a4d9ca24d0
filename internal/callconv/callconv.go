// Package callconv is the contract between the call pipeline and the native
// calling-convention engine. The pipeline never touches ABI details itself.
package callconv

import (
	"unsafe"

	"crepl/internal/ctype"
)

// ResultSize is the size of the return slot handed to Call. It is large
// enough for any scalar return (libffi widens small integers to ffi_arg).
const ResultSize = 16

// Engine turns a list of argument tags plus a return tag into a prepared call.
type Engine interface {
	Prepare(ret ctype.Tag, args []ctype.Tag) (Prepared, error)
}

// Prepared is a validated call descriptor. It is built per command line and
// released right after the call.
type Prepared interface {
	Ret() ctype.Tag
	Args() []ctype.Tag
	// Call invokes fn. args[i] is the address of the storage for argument i;
	// ret must point to ResultSize bytes. Void calls leave ret untouched.
	Call(fn, ret unsafe.Pointer, args []unsafe.Pointer)
	Release()
}

// Allocator hands out storage that the native side may read during a call.
// Memory returned by Alloc is zeroed.
type Allocator interface {
	Alloc(size int) (unsafe.Pointer, error)
	Free(p unsafe.Pointer)
}

// Flusher flushes buffered native stdio after a call returns.
type Flusher interface {
	Flush()
}
