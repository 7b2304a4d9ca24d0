package registry

import (
	"fmt"
	"strings"

	"crepl/internal/diag"
	"crepl/internal/source"
)

// ResolveError means no loaded library exports Name.
type ResolveError struct {
	Name     string
	Searched []string // in scan order
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("symbol %q not found in %d loaded libraries", e.Name, len(e.Searched))
}

func (e *ResolveError) Code() diag.Code { return diag.SymUnresolved }

func (e *ResolveError) Notes() []diag.Note {
	if len(e.Searched) == 0 {
		return []diag.Note{{Msg: "no libraries are loaded; use :l <library>"}}
	}
	return []diag.Note{{Span: source.Span{}, Msg: "searched: " + strings.Join(e.Searched, ", ")}}
}

// InvalidSymbolError is a function name dlsym can never match.
type InvalidSymbolError struct{ Name string }

func (e *InvalidSymbolError) Error() string   { return fmt.Sprintf("invalid symbol name %q", e.Name) }
func (e *InvalidSymbolError) Code() diag.Code { return diag.SymInvalidName }

// NotLoadedError is returned when unloading an unknown name.
type NotLoadedError struct {
	Name   string
	Loaded []string
}

func (e *NotLoadedError) Error() string   { return fmt.Sprintf("library %s is not loaded", e.Name) }
func (e *NotLoadedError) Code() diag.Code { return diag.LibNotLoaded }

func (e *NotLoadedError) Notes() []diag.Note {
	if len(e.Loaded) == 0 {
		return nil
	}
	return []diag.Note{{Msg: "loaded: " + strings.Join(e.Loaded, ", ")}}
}

// InvalidNameError rejects empty library names.
type InvalidNameError struct{ Name string }

func (e *InvalidNameError) Error() string   { return fmt.Sprintf("invalid library name %q", e.Name) }
func (e *InvalidNameError) Code() diag.Code { return diag.LibInvalidName }

// ReplaceWarning is returned when a reload succeeded but the previous
// handle failed to close. The new handle is in place.
type ReplaceWarning struct {
	Name string
	Err  error
}

func (e *ReplaceWarning) Error() string {
	return fmt.Sprintf("reloaded %s, closing the previous handle failed: %v", e.Name, e.Err)
}

func (e *ReplaceWarning) Unwrap() error           { return e.Err }
func (e *ReplaceWarning) Code() diag.Code         { return diag.LibUnloadFailed }
func (e *ReplaceWarning) Severity() diag.Severity { return diag.SevWarning }
