//go:build cgo && (linux || darwin)

package ffi

/*
#define _GNU_SOURCE
#cgo linux LDFLAGS: -ldl
#cgo pkg-config: libffi
#include <ffi.h>
#include <dlfcn.h>
#include <stdio.h>
#include <stdlib.h>
#include <string.h>

// dlerror is per thread, so the message is read in the same C call.
static void* cr_dlopen(const char* path, const char** err) {
	void* h = dlopen(path, RTLD_NOW | RTLD_LOCAL);
	*err = h ? NULL : dlerror();
	return h;
}

static const char* cr_dlclose(void* h) {
	return dlclose(h) == 0 ? NULL : dlerror();
}

// Clear dlerror, call dlsym, and hand back the error alongside the symbol.
// A NULL symbol without an error is a legal (if unusual) export.
static void* cr_dlsym_clear(void* h, const char* name, const char** err) {
	dlerror();
	void* p = dlsym(h, name);
	const char* e = dlerror();
	*err = e;
	return e ? NULL : p;
}

static ffi_cif* cr_alloc_cif(void) {
	return (ffi_cif*)calloc(1, sizeof(ffi_cif));
}

static int cr_prep_cif(ffi_cif* cif, unsigned int nargs, ffi_type* rtype, ffi_type** atypes) {
	return ffi_prep_cif(cif, FFI_DEFAULT_ABI, nargs, rtype, atypes);
}

// ffi_call wrapper: generic void* fn avoids cgo function-pointer typing.
static void cr_ffi_call(ffi_cif* cif, void* fn, void* rvalue, void** avalue) {
	ffi_call(cif, (void (*)(void))fn, rvalue, avalue);
}

static void cr_flush_all(void) {
	fflush(NULL);
}
*/
import "C"

import (
	"errors"
	"unsafe"

	"crepl/internal/ctype"
)

func cDlopen(path string) (unsafe.Pointer, string) {
	cs := C.CString(path)
	defer C.free(unsafe.Pointer(cs))
	var cerr *C.char
	h := C.cr_dlopen(cs, &cerr)
	if h == nil {
		return nil, dlerrText(cerr)
	}
	return h, ""
}

func cDlsym(h unsafe.Pointer, name string) (unsafe.Pointer, string) {
	cs := C.CString(name)
	defer C.free(unsafe.Pointer(cs))
	var cerr *C.char
	p := C.cr_dlsym_clear(h, cs, &cerr)
	if cerr != nil {
		return nil, C.GoString(cerr)
	}
	return p, ""
}

func cDlclose(h unsafe.Pointer) string {
	if cerr := C.cr_dlclose(h); cerr != nil {
		return C.GoString(cerr)
	}
	return ""
}

func dlerrText(e *C.char) string {
	if e == nil {
		return "unknown dlerror"
	}
	return C.GoString(e)
}

func cMalloc(n int) unsafe.Pointer { return C.calloc(1, C.size_t(n)) }
func cFree(p unsafe.Pointer)       { C.free(p) }
func cFlush()                      { C.cr_flush_all() }

func ffiTypeFor(t ctype.Tag) (*C.ffi_type, bool) {
	switch t {
	case ctype.Void:
		return &C.ffi_type_void, true
	case ctype.SInt8:
		return &C.ffi_type_sint8, true
	case ctype.SInt16:
		return &C.ffi_type_sint16, true
	case ctype.SInt32:
		return &C.ffi_type_sint32, true
	case ctype.SInt64:
		return &C.ffi_type_sint64, true
	case ctype.UInt8:
		return &C.ffi_type_uint8, true
	case ctype.UInt16:
		return &C.ffi_type_uint16, true
	case ctype.UInt32:
		return &C.ffi_type_uint32, true
	case ctype.UInt64:
		return &C.ffi_type_uint64, true
	case ctype.Float32:
		return &C.ffi_type_float, true
	case ctype.Float64:
		return &C.ffi_type_double, true
	case ctype.Pointer:
		return &C.ffi_type_pointer, true
	default:
		return nil, false
	}
}

var errCIFAlloc = errors.New("ffi_prep_cif: out of memory")

// cPrepCIF allocates the cif and its ffi_type* vector on the C heap;
// libffi reads the vector again on every ffi_call.
func cPrepCIF(ret ctype.Tag, args []ctype.Tag) (cif, types unsafe.Pointer, status int, err error) {
	rty, ok := ffiTypeFor(ret)
	if !ok {
		return nil, nil, 0, &UnsupportedTypeError{Tag: ret, Position: -1}
	}
	n := len(args)
	var typesPtr **C.ffi_type
	if n > 0 {
		mem := C.calloc(C.size_t(n), C.size_t(unsafe.Sizeof(uintptr(0))))
		if mem == nil {
			return nil, nil, 0, errCIFAlloc
		}
		vec := unsafe.Slice((**C.ffi_type)(mem), n)
		for i, a := range args {
			at, ok := ffiTypeFor(a)
			if !ok || a == ctype.Void {
				C.free(mem)
				return nil, nil, 0, &UnsupportedTypeError{Tag: a, Position: i}
			}
			vec[i] = at
		}
		typesPtr = (**C.ffi_type)(mem)
	}
	c := C.cr_alloc_cif()
	if c == nil {
		C.free(unsafe.Pointer(typesPtr))
		return nil, nil, 0, errCIFAlloc
	}
	st := C.cr_prep_cif(c, C.uint(n), rty, typesPtr)
	if st != C.FFI_OK {
		C.free(unsafe.Pointer(c))
		C.free(unsafe.Pointer(typesPtr))
		return nil, nil, int(st), nil
	}
	return unsafe.Pointer(c), unsafe.Pointer(typesPtr), 0, nil
}

// cCall hands the argument vector straight to libffi. args holds only
// pointers into C memory, so passing its backing array is allowed by cgo.
func cCall(cif, fn, ret unsafe.Pointer, args []unsafe.Pointer) {
	var argv *unsafe.Pointer
	if len(args) > 0 {
		argv = &args[0]
	}
	C.cr_ffi_call((*C.ffi_cif)(cif), fn, ret, argv)
}

func prepStatusText(st int) string {
	switch C.ffi_status(st) {
	case C.FFI_BAD_TYPEDEF:
		return "bad type definition"
	case C.FFI_BAD_ABI:
		return "bad ABI"
	default:
		return "status " + itoa(st)
	}
}

const supported = true
