package main

import (
	"bytes"
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"crepl/internal/registry"
	"crepl/internal/session"
	"crepl/internal/ui"
)

type sessionOutcome struct {
	sess *session.Session
	err  error
}

// openSessionWithUI starts the session in the background and shows preload
// progress on out until it is ready. Session messages written meanwhile are
// held back until the progress view is gone.
func openSessionWithUI(ctx context.Context, cfg session.Config, out io.Writer) (*session.Session, error) {
	// queued + opening + done/error на библиотеку, отправка не блокируется
	events := make(chan registry.PreloadEvent, 3*len(cfg.Preload))
	outcomeCh := make(chan sessionOutcome, 1)
	held := &holdWriter{w: cfg.Err}
	defer held.Release()

	cfg.Err = held
	cfg.OnPreload = func(ev registry.PreloadEvent) { events <- ev }

	go func() {
		sess, err := session.New(ctx, cfg)
		outcomeCh <- sessionOutcome{sess: sess, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("loading libraries", cfg.Preload, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil), tea.WithContext(ctx))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		if outcome.sess != nil {
			_ = outcome.sess.Close()
		}
		return nil, uiErr
	}
	return outcome.sess, outcome.err
}

// holdWriter buffers writes until Release, then passes them through.
type holdWriter struct {
	mu       sync.Mutex
	w        io.Writer
	buf      bytes.Buffer
	released bool
}

func (h *holdWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return h.w.Write(p)
	}
	return h.buf.Write(p)
}

func (h *holdWriter) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	_, _ = h.buf.WriteTo(h.w)
}
