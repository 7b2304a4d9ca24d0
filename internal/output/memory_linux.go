//go:build linux

package output

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

var pageSize = uintptr(os.Getpagesize())

// ProcessMemory reads the current process' memory. Each page is checked
// before it is touched by writing its first byte into a pipe: the kernel
// copies from the address itself and answers EFAULT for pages that are
// unmapped or not readable (PROT_NONE guard pages included).
type ProcessMemory struct{}

func (ProcessMemory) CString(p unsafe.Pointer, limit int) ([]byte, error) {
	pages, err := newPageChecker()
	if err != nil {
		return nil, err
	}
	defer pages.close()

	base := uintptr(p)
	checked := uintptr(0) // первая непроверенная страница
	out := make([]byte, 0, 64)
	for i := 0; i < limit; i++ {
		addr := base + uintptr(i)
		if page := addr &^ (pageSize - 1); page >= checked {
			if !pages.readable(page) {
				return nil, ErrUnreadable
			}
			checked = page + pageSize
		}
		b := *(*byte)(unsafe.Pointer(addr)) //nolint:govet // checked above
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
	return nil, ErrUnterminated
}

type pageChecker struct {
	r, w int
}

func newPageChecker() (*pageChecker, error) {
	var fds [2]int
	if err := unix.Pipe2(fds[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		return nil, fmt.Errorf("memory pages: %w", err)
	}
	return &pageChecker{r: fds[0], w: fds[1]}, nil
}

func (p *pageChecker) readable(page uintptr) bool {
	if page == 0 {
		return false
	}
	src := unsafe.Slice((*byte)(unsafe.Pointer(page)), 1) //nolint:govet // only handed to write(2)
	if _, err := unix.Write(p.w, src); err != nil {
		return false
	}
	var sink [1]byte
	_, _ = unix.Read(p.r, sink[:]) // не даём каналу заполниться
	return true
}

func (p *pageChecker) close() {
	_ = unix.Close(p.r)
	_ = unix.Close(p.w)
}
