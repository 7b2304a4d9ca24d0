package ffi

import (
	"errors"
	"strings"
	"sync"
	"unsafe"

	"golang.org/x/sys/unix"

	"crepl/internal/diag"
)

// Library is an open dlopen handle.
type Library struct {
	name string
	mu   sync.Mutex
	h    unsafe.Pointer
}

// Open dlopens name. Bare names go through the loader search path;
// names containing '/' are checked on disk first for a precise error.
func Open(name string) (*Library, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &LoadError{Name: name, Reason: "empty library name", code: diag.LibInvalidName}
	}
	if strings.ContainsRune(name, '/') {
		if err := checkPath(name); err != nil {
			return nil, err
		}
	}
	h, msg := cDlopen(name)
	if h == nil {
		return nil, &LoadError{Name: name, Reason: msg, code: classifyLoad(msg)}
	}
	return &Library{name: name, h: h}, nil
}

func checkPath(name string) error {
	var st unix.Stat_t
	if err := unix.Stat(name, &st); err != nil {
		code := diag.LibLoadFailed
		switch {
		case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENOTDIR):
			code = diag.LibNotFound
		case errors.Is(err, unix.EACCES):
			code = diag.LibPermission
		}
		return &LoadError{Name: name, Reason: err.Error(), code: code}
	}
	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		return &LoadError{Name: name, Reason: "is a directory", code: diag.LibInvalidName}
	}
	if err := unix.Access(name, unix.R_OK); err != nil {
		return &LoadError{Name: name, Reason: err.Error(), code: diag.LibPermission}
	}
	return nil
}

func (l *Library) Name() string { return l.name }

// Symbol looks name up. ok is false when the library does not export it.
func (l *Library) Symbol(name string) (unsafe.Pointer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.h == nil {
		return nil, false
	}
	p, msg := cDlsym(l.h, name)
	if msg != "" || p == nil {
		return nil, false
	}
	return p, true
}

// Close releases the handle. Symbols obtained from it become dangling.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.h == nil {
		return nil
	}
	msg := cDlclose(l.h)
	l.h = nil
	if msg != "" {
		return &CloseError{Name: l.name, Reason: msg}
	}
	return nil
}
