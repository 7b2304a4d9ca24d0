//go:build linux

package output

import (
	"errors"
	"os"
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

func TestProcessMemoryUnmapped(t *testing.T) {
	if _, err := (ProcessMemory{}).CString(unsafe.Pointer(uintptr(0x10)), 8); !errors.Is(err, ErrUnreadable) { //nolint:govet // never dereferenced
		t.Fatalf("low address: err = %v", err)
	}

	page := os.Getpagesize()
	mem, err := unix.Mmap(-1, 0, page, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	addr := unsafe.Pointer(&mem[0])
	if err := unix.Munmap(mem); err != nil {
		t.Fatalf("munmap: %v", err)
	}
	if _, err := (ProcessMemory{}).CString(addr, 8); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("unmapped page: err = %v", err)
	}
}

func TestProcessMemoryGuardPage(t *testing.T) {
	page := os.Getpagesize()
	mem, err := unix.Mmap(-1, 0, page, unix.PROT_NONE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	defer unix.Munmap(mem)
	if _, err := (ProcessMemory{}).CString(unsafe.Pointer(&mem[0]), 8); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("PROT_NONE page: err = %v", err)
	}
}

func TestProcessMemoryCrossesPages(t *testing.T) {
	page := os.Getpagesize()
	mem, err := unix.Mmap(-1, 0, 2*page, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	defer unix.Munmap(mem)
	copy(mem[page-2:], "abc\x00")
	got, err := ProcessMemory{}.CString(unsafe.Pointer(&mem[page-2]), 16)
	if err != nil || string(got) != "abc" {
		t.Fatalf("CString = %q, %v", got, err)
	}

	// вторая страница недоступна: строка обрывается на границе
	if err := unix.Mprotect(mem[page:], unix.PROT_NONE); err != nil {
		t.Fatalf("mprotect: %v", err)
	}
	if _, err := (ProcessMemory{}).CString(unsafe.Pointer(&mem[page-2]), 16); !errors.Is(err, ErrUnreadable) {
		t.Fatalf("guarded tail: err = %v", err)
	}
}
