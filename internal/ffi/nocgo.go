//go:build !cgo || !(linux || darwin)

package ffi

import (
	"unsafe"

	"crepl/internal/ctype"
)

func cDlopen(string) (unsafe.Pointer, string)                { return nil, ErrUnsupported.Error() }
func cDlsym(unsafe.Pointer, string) (unsafe.Pointer, string) { return nil, ErrUnsupported.Error() }
func cDlclose(unsafe.Pointer) string                         { return "" }
func cMalloc(int) unsafe.Pointer                             { return nil }
func cFree(unsafe.Pointer)                                   {}
func cFlush()                                                {}

func cPrepCIF(ctype.Tag, []ctype.Tag) (cif, types unsafe.Pointer, status int, err error) {
	return nil, nil, 0, ErrUnsupported
}

func cCall(cif, fn, ret unsafe.Pointer, args []unsafe.Pointer) {
	panic(ErrUnsupported)
}

func prepStatusText(st int) string { return "status " + itoa(st) }

const supported = false
