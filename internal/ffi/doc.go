// Package ffi binds the dynamic loader (dlopen/dlsym/dlclose) and libffi.
//
// Everything that crosses into C lives here: library handles, prepared call
// interfaces, the C heap used for argument storage, and stdio flushing.
// Builds without cgo get stubs that report ErrUnsupported.
package ffi
