package repl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"
)

const historySchemaVersion uint16 = 1

// historyFile is the on-disk layout of the history.
type historyFile struct {
	Schema  uint16
	Entries []string
}

// History keeps entered lines, oldest first, capped at size.
// Thread-safe for concurrent access.
type History struct {
	mu      sync.Mutex
	path    string // "" = in-memory only
	size    int
	entries []string
	dirty   bool
}

// NewHistory returns an in-memory history.
func NewHistory(size int) *History {
	if size <= 0 {
		size = 1000
	}
	return &History{size: size}
}

// LoadHistory reads path. A missing file is an empty history; a file with
// another schema is ignored and will be overwritten on Save.
func LoadHistory(path string, size int) (*History, error) {
	h := NewHistory(size)
	h.path = path
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return h, nil
		}
		return nil, err
	}
	defer f.Close()

	var payload historyFile
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, fmt.Errorf("history %s: %w", path, err)
	}
	if payload.Schema != historySchemaVersion {
		return h, nil
	}
	h.entries = payload.Entries
	h.trimLocked()
	return h, nil
}

// Add records line. Blank lines and repeats of the last entry are skipped.
func (h *History) Add(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if n := len(h.entries); n > 0 && h.entries[n-1] == line {
		return
	}
	h.entries = append(h.entries, line)
	h.trimLocked()
	h.dirty = true
}

func (h *History) trimLocked() {
	if over := len(h.entries) - h.size; over > 0 {
		h.entries = append([]string(nil), h.entries[over:]...)
	}
}

// Entries returns a copy, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}

func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// Save writes the history atomically. In-memory and unchanged histories
// are not written.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.path == "" || !h.dirty {
		return nil
	}
	dir := filepath.Dir(h.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "history-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name()) // после Rename файла уже нет

	if err := msgpack.NewEncoder(f).Encode(historyFile{Schema: historySchemaVersion, Entries: h.entries}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), h.path); err != nil {
		return err
	}
	h.dirty = false
	return nil
}
