package session

import (
	"crepl/internal/ffi"
	"crepl/internal/output"
	"crepl/internal/registry"
)

// NativeBackend wires the session to dlopen and libffi.
func NativeBackend() Backend {
	return Backend{
		Opener:  registry.OpenFunc(openLibrary),
		Engine:  ffi.Engine{},
		Alloc:   ffi.Heap{},
		Flusher: ffi.Stdio{},
		Memory:  output.ProcessMemory{},
	}
}

func openLibrary(name string) (registry.Handle, error) {
	lib, err := ffi.Open(name)
	if err != nil {
		return nil, err
	}
	return lib, nil
}
