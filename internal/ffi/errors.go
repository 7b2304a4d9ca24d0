package ffi

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"crepl/internal/ctype"
	"crepl/internal/diag"
)

// ErrUnsupported is returned when the binary was built without cgo.
var ErrUnsupported = errors.New("native calls need a cgo build on linux or darwin")

// LoadError describes a failed dlopen.
type LoadError struct {
	Name   string
	Reason string // dlerror text
	code   diag.Code
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot load %s: %s", e.Name, e.Reason)
}

func (e *LoadError) Code() diag.Code { return e.code }

// CloseError describes a failed dlclose.
type CloseError struct {
	Name   string
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("cannot unload %s: %s", e.Name, e.Reason)
}

func (e *CloseError) Code() diag.Code { return diag.LibUnloadFailed }

// UnsupportedTypeError reports a tag libffi has no type for.
// Position -1 refers to the return type.
type UnsupportedTypeError struct {
	Tag      ctype.Tag
	Position int
}

func (e *UnsupportedTypeError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("return type %s is not supported", e.Tag)
	}
	return fmt.Sprintf("argument %d: type %s is not supported", e.Position+1, e.Tag)
}

func (e *UnsupportedTypeError) Code() diag.Code { return diag.SigUnsupported }

// PrepError is a non-OK status from ffi_prep_cif.
type PrepError struct {
	Ret    ctype.Tag
	Args   []ctype.Tag
	Status int
}

func (e *PrepError) Error() string {
	return fmt.Sprintf("ffi_prep_cif rejected %s: %s", ctype.Sig(e.Ret, e.Args), prepStatusText(e.Status))
}

func (e *PrepError) Code() diag.Code { return diag.SigPrepFailed }

// classifyLoad maps a dlerror message to a diagnostic code.
func classifyLoad(msg string) diag.Code {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "permission denied"):
		return diag.LibPermission
	case strings.Contains(lower, "no such file"),
		strings.Contains(lower, "image not found"),
		strings.Contains(lower, "not found"):
		return diag.LibNotFound
	default:
		return diag.LibLoadFailed
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
