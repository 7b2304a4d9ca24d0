package registry

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"unsafe"

	"crepl/internal/diag"
)

// fakeLib exports a fixed symbol table; addresses are fake but distinct.
type fakeLib struct {
	name    string
	symbols map[string]unsafe.Pointer
	closed  bool
	failOn  bool
}

func (l *fakeLib) Symbol(name string) (unsafe.Pointer, bool) {
	if l.closed {
		return nil, false
	}
	p, ok := l.symbols[name]
	return p, ok
}

func (l *fakeLib) Close() error {
	if l.failOn {
		return errors.New("dlclose failed")
	}
	l.closed = true
	return nil
}

type fakeOpener struct {
	mu     sync.Mutex
	libs   map[string][]string // name -> exported symbols
	opened []*fakeLib
}

var errNoFile = errors.New("cannot open shared object file: No such file or directory")

func (o *fakeOpener) Open(name string) (Handle, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	syms, ok := o.libs[name]
	if !ok {
		return nil, errNoFile
	}
	lib := &fakeLib{name: name, symbols: make(map[string]unsafe.Pointer)}
	for _, s := range syms {
		addr := new(byte)
		lib.symbols[s] = unsafe.Pointer(addr)
	}
	o.opened = append(o.opened, lib)
	return lib, nil
}

func newTestRegistry(t *testing.T) (*Registry, *fakeOpener) {
	t.Helper()
	op := &fakeOpener{libs: map[string][]string{
		"libc.so.6": {"strlen", "abs", "puts", "shared"},
		"libm.so.6": {"sin", "cos", "shared"},
		"libfoo.so": {"foo"},
	}}
	r, err := New(op, "libc.so.6")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, op
}

func TestNewLoadsDefault(t *testing.T) {
	r, _ := newTestRegistry(t)
	if got := r.List(); !slices.Equal(got, []string{"libc.so.6"}) {
		t.Fatalf("List = %v", got)
	}
	if _, err := New(&fakeOpener{}, "libc.so.6"); err == nil {
		t.Fatalf("New with a missing default library should fail")
	}
}

func TestLoadKeepsOrder(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, name := range []string{"libm.so.6", "libfoo.so"} {
		if err := r.Load(name); err != nil {
			t.Fatalf("Load(%s): %v", name, err)
		}
	}
	want := []string{"libc.so.6", "libm.so.6", "libfoo.so"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestLoadFailureLeavesRegistry(t *testing.T) {
	r, _ := newTestRegistry(t)
	err := r.Load("libmissing.so")
	if !errors.Is(err, errNoFile) {
		t.Fatalf("err = %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d after failed load", r.Len())
	}
	var inv *InvalidNameError
	if err := r.Load(""); !errors.As(err, &inv) {
		t.Fatalf("empty name: err = %v", err)
	}
}

func TestReloadReplacesHandle(t *testing.T) {
	r, op := newTestRegistry(t)
	_ = r.Load("libm.so.6")
	_ = r.Load("libfoo.so")
	if err := r.Load("libm.so.6"); err != nil {
		t.Fatalf("reload: %v", err)
	}
	want := []string{"libc.so.6", "libfoo.so", "libm.so.6"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	if !op.opened[1].closed {
		t.Fatalf("previous handle of libm.so.6 was not closed")
	}
	if op.opened[3].closed {
		t.Fatalf("new handle must stay open")
	}
}

func TestReloadCloseFailureIsWarning(t *testing.T) {
	r, op := newTestRegistry(t)
	_ = r.Load("libm.so.6")
	op.opened[1].failOn = true
	err := r.Load("libm.so.6")
	d := diag.FromError(err)
	if d.Severity != diag.SevWarning || d.Code != diag.LibUnloadFailed {
		t.Fatalf("diag = %+v", d)
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d", r.Len())
	}
}

func TestUnload(t *testing.T) {
	r, op := newTestRegistry(t)
	_ = r.Load("libm.so.6")
	if err := r.Unload("libm.so.6"); err != nil {
		t.Fatalf("Unload: %v", err)
	}
	if !op.opened[1].closed || r.Loaded("libm.so.6") {
		t.Fatalf("libm.so.6 still loaded")
	}

	before := r.Len()
	err := r.Unload("libnever.so")
	var nl *NotLoadedError
	if !errors.As(err, &nl) || nl.Name != "libnever.so" {
		t.Fatalf("err = %v", err)
	}
	if r.Len() != before {
		t.Fatalf("Len changed: %d -> %d", before, r.Len())
	}
	if d := diag.FromError(err); d.Code != diag.LibNotLoaded || len(d.Notes) != 1 {
		t.Fatalf("diag = %+v", d)
	}
}

func TestResolvePrefersNewest(t *testing.T) {
	r, _ := newTestRegistry(t)
	_ = r.Load("libm.so.6")

	sym, err := r.Resolve("shared")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if sym.Library != "libm.so.6" {
		t.Fatalf("shared resolved from %s, want libm.so.6", sym.Library)
	}

	sym, err = r.Resolve("strlen")
	if err != nil || sym.Library != "libc.so.6" || sym.Addr == nil {
		t.Fatalf("strlen: %+v, %v", sym, err)
	}
}

func TestResolveMissingListsSearched(t *testing.T) {
	r, _ := newTestRegistry(t)
	_, err := r.Resolve("nope")
	var re *ResolveError
	if !errors.As(err, &re) {
		t.Fatalf("err = %v", err)
	}
	if !slices.Equal(re.Searched, []string{"libc.so.6"}) {
		t.Fatalf("Searched = %v", re.Searched)
	}
	d := diag.FromError(err)
	if d.Code != diag.SymUnresolved || len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, "libc.so.6") {
		t.Fatalf("diag = %+v", d)
	}
}

func TestResolveInvalidName(t *testing.T) {
	r, _ := newTestRegistry(t)
	for _, name := range []string{"", "9lives", "a-b"} {
		var inv *InvalidSymbolError
		if _, err := r.Resolve(name); !errors.As(err, &inv) {
			t.Fatalf("Resolve(%q): err = %v", name, err)
		}
	}
}

func TestResolveAfterUnloadAll(t *testing.T) {
	r, _ := newTestRegistry(t)
	_ = r.Unload("libc.so.6")
	_, err := r.Resolve("strlen")
	if d := diag.FromError(err); d.Code != diag.SymUnresolved || !strings.Contains(d.Notes[0].Msg, ":l") {
		t.Fatalf("diag = %+v", d)
	}
}

func TestPreloadKeepsConfiguredOrder(t *testing.T) {
	r, _ := newTestRegistry(t)
	err := r.Preload(context.Background(), []string{"libfoo.so", "libmissing.so", "libm.so.6"}, 4)
	var pe *PreloadError
	if !errors.As(err, &pe) || pe.Name != "libmissing.so" {
		t.Fatalf("err = %v", err)
	}
	want := []string{"libc.so.6", "libfoo.so", "libm.so.6"}
	if got := r.List(); !slices.Equal(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestPreloadCanceled(t *testing.T) {
	r, _ := newTestRegistry(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := r.Preload(ctx, []string{"libm.so.6"}, 1)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d", r.Len())
	}
}

func TestPreloadReportsProgress(t *testing.T) {
	r, _ := newTestRegistry(t)
	var mu sync.Mutex
	final := map[string]PreloadStatus{}
	var seen int
	err := r.PreloadWithProgress(context.Background(), []string{"libm.so.6", "libmissing.so"}, 2, func(ev PreloadEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen++
		final[ev.Name] = ev.Status
	})
	if err == nil {
		t.Fatal("expected the missing library to fail")
	}
	if final["libm.so.6"] != PreloadDone || final["libmissing.so"] != PreloadFailed {
		t.Fatalf("final states = %v", final)
	}
	// queued + opening + done/error for each library
	if seen != 6 {
		t.Fatalf("events = %d, want 6", seen)
	}
}

func TestCloseReleasesAll(t *testing.T) {
	r, op := newTestRegistry(t)
	_ = r.Load("libm.so.6")
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for _, lib := range op.opened {
		if !lib.closed {
			t.Fatalf("%s left open", lib.name)
		}
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d", r.Len())
	}
}
