// Package registry keeps the set of loaded native libraries and resolves
// symbols across them.
package registry

import (
	"errors"
	"runtime"
	"slices"
	"sync"
	"unsafe"
)

// Handle is an open library.
type Handle interface {
	Symbol(name string) (unsafe.Pointer, bool)
	Close() error
}

// Opener opens libraries by file name or path.
type Opener interface {
	Open(name string) (Handle, error)
}

// OpenFunc adapts a function to Opener.
type OpenFunc func(name string) (Handle, error)

func (f OpenFunc) Open(name string) (Handle, error) { return f(name) }

// DefaultLibrary returns the platform C runtime.
func DefaultLibrary() string {
	if runtime.GOOS == "darwin" {
		return "libSystem.B.dylib"
	}
	return "libc.so.6"
}

type entry struct {
	name   string
	handle Handle
}

// Registry owns library handles. Entries keep load order; a name maps to at
// most one handle. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	opener  Opener
	entries []entry
}

// New creates a registry with defaultLib already loaded.
func New(opener Opener, defaultLib string) (*Registry, error) {
	r := &Registry{opener: opener}
	if err := r.Load(defaultLib); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(e entry) bool { return e.name == name })
}

// Load opens name and records it as the most recently loaded library.
// Loading a name again replaces its handle. On failure nothing changes.
func (r *Registry) Load(name string) error {
	if name == "" {
		return &InvalidNameError{Name: name}
	}
	h, err := r.opener.Open(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.insertLocked(name, h)
}

func (r *Registry) insertLocked(name string, h Handle) error {
	var closeErr error
	if i := r.index(name); i >= 0 {
		old := r.entries[i].handle
		r.entries = slices.Delete(r.entries, i, i+1)
		// новый хендл открыт до закрытия старого, счётчик ссылок dlopen не падает в ноль
		closeErr = old.Close()
	}
	r.entries = append(r.entries, entry{name: name, handle: h})
	if closeErr != nil {
		return &ReplaceWarning{Name: name, Err: closeErr}
	}
	return nil
}

// Unload releases name. Unknown names fail and leave the registry as is.
func (r *Registry) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.index(name)
	if i < 0 {
		return &NotLoadedError{Name: name, Loaded: r.namesLocked()}
	}
	h := r.entries[i].handle
	r.entries = slices.Delete(r.entries, i, i+1)
	return h.Close()
}

// List returns loaded names in load order.
func (r *Registry) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.name
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Loaded reports whether name is currently loaded.
func (r *Registry) Loaded(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index(name) >= 0
}

// Symbol is a resolved function address. It stays valid only while
// Library remains loaded.
type Symbol struct {
	Name    string
	Library string
	Addr    unsafe.Pointer
}

// Resolve scans from the most recently loaded library to the oldest and
// returns the first export named symbol.
func (r *Registry) Resolve(symbol string) (Symbol, error) {
	if !validSymbol(symbol) {
		return Symbol{}, &InvalidSymbolError{Name: symbol}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	searched := make([]string, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		searched = append(searched, e.name)
		if p, ok := e.handle.Symbol(symbol); ok {
			return Symbol{Name: symbol, Library: e.name, Addr: p}, nil
		}
	}
	return Symbol{}, &ResolveError{Name: symbol, Searched: searched}
}

// Close releases every handle, newest first.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var errs []error
	for i := len(r.entries) - 1; i >= 0; i-- {
		if err := r.entries[i].handle.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.entries = nil
	return errors.Join(errs...)
}

func validSymbol(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (i > 0 && c >= '0' && c <= '9') {
			continue
		}
		return false
	}
	return true
}
