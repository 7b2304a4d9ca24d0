package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"crepl/internal/registry"
)

func TestProgressTracksEvents(t *testing.T) {
	events := make(chan registry.PreloadEvent)
	m := NewProgressModel("loading libraries", []string{"libm.so.6", "libz.so.1"}, events).(*progressModel)

	m.Update(eventMsg{Name: "libm.so.6", Status: registry.PreloadDone})
	m.Update(eventMsg{Name: "libz.so.1", Status: registry.PreloadOpening})
	if got := m.fraction(); got != 0.75 {
		t.Fatalf("fraction = %v, want 0.75", got)
	}
	m.Update(eventMsg{Name: "libz.so.1", Status: registry.PreloadFailed, Err: errors.New("not found")})
	m.Update(eventMsg{Name: "libunknown.so", Status: registry.PreloadDone})

	view := m.View()
	for _, want := range []string{"libm.so.6", "done", "libz.so.1: not found", "error"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "libunknown") {
		t.Fatalf("unknown library rendered:\n%s", view)
	}

	_, cmd := m.Update(doneMsg{})
	if !m.done || cmd == nil {
		t.Fatal("doneMsg must finish the model")
	}
	if !strings.Contains(m.View(), "done: loading libraries") {
		t.Fatalf("final view:\n%s", m.View())
	}
}

func TestProgressWindowSize(t *testing.T) {
	m := NewProgressModel("x", []string{"a"}, nil).(*progressModel)
	m.Update(tea.WindowSizeMsg{Width: 40})
	if m.width != 40 || m.prog.Width != 36 {
		t.Fatalf("width = %d, prog = %d", m.width, m.prog.Width)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("/usr/lib/x86_64-linux-gnu/libm.so.6", 12); got != "/usr/lib/..." {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("truncate = %q", got)
	}
	for width := 1; width <= 20; width++ {
		got := truncate("/usr/lib/x86_64-linux-gnu/libm.so.6", width)
		if w := runewidth.StringWidth(got); w != width {
			t.Fatalf("truncate(%d) = %q, width %d", width, got, w)
		}
	}
}
