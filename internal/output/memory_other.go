//go:build !linux

package output

import "unsafe"

// ProcessMemory reads the current process' memory. Without mincore(2) only
// NULL is rejected.
type ProcessMemory struct{}

func (ProcessMemory) CString(p unsafe.Pointer, limit int) ([]byte, error) {
	if p == nil {
		return nil, ErrUnreadable
	}
	out := make([]byte, 0, 64)
	for i := 0; i < limit; i++ {
		b := *(*byte)(unsafe.Add(p, i))
		if b == 0 {
			return out, nil
		}
		out = append(out, b)
	}
	return nil, ErrUnterminated
}
