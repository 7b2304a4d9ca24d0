package registry

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"crepl/internal/diag"
)

// PreloadError wraps the failure of one configured library.
type PreloadError struct {
	Name string
	Err  error
}

func (e *PreloadError) Error() string   { return fmt.Sprintf("preload %s: %v", e.Name, e.Err) }
func (e *PreloadError) Unwrap() error   { return e.Err }
func (e *PreloadError) Code() diag.Code { return diag.LibPreloadFailed }

// PreloadStatus is the state of one library during Preload.
type PreloadStatus uint8

const (
	PreloadQueued PreloadStatus = iota
	PreloadOpening
	PreloadDone
	PreloadFailed
)

func (s PreloadStatus) String() string {
	switch s {
	case PreloadQueued:
		return "queued"
	case PreloadOpening:
		return "opening"
	case PreloadDone:
		return "done"
	case PreloadFailed:
		return "error"
	default:
		return "unknown"
	}
}

// PreloadEvent reports progress for one library.
type PreloadEvent struct {
	Name   string
	Status PreloadStatus
	Err    error
}

// ProgressFunc receives preload events. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressFunc func(PreloadEvent)

// Preload opens names concurrently and registers the successful ones in the
// given order, so resolution precedence matches the configuration. Failures
// do not stop the others; they come back joined.
func (r *Registry) Preload(ctx context.Context, names []string, workers int) error {
	return r.PreloadWithProgress(ctx, names, workers, nil)
}

// PreloadWithProgress is Preload with progress reporting; progress may be nil.
func (r *Registry) PreloadWithProgress(ctx context.Context, names []string, workers int, progress ProgressFunc) error {
	if len(names) == 0 {
		return nil
	}
	if progress == nil {
		progress = func(PreloadEvent) {}
	}
	if workers < 1 {
		workers = 1
	}
	handles := make([]Handle, len(names))
	errs := make([]error, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, name := range names {
		i, name := i, name // per-iteration copies for the goroutine (go < 1.22)
		progress(PreloadEvent{Name: name, Status: PreloadQueued})
		g.Go(func() error {
			fail := func(err error) error {
				errs[i] = &PreloadError{Name: name, Err: err}
				progress(PreloadEvent{Name: name, Status: PreloadFailed, Err: err})
				return nil
			}
			if err := gctx.Err(); err != nil {
				return fail(err)
			}
			if name == "" {
				return fail(&InvalidNameError{Name: name})
			}
			progress(PreloadEvent{Name: name, Status: PreloadOpening})
			h, err := r.opener.Open(name)
			if err != nil {
				return fail(err)
			}
			handles[i] = h
			progress(PreloadEvent{Name: name, Status: PreloadDone})
			return nil
		})
	}
	_ = g.Wait() // горутины ошибок не возвращают, всё лежит в errs

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, h := range handles {
		if h == nil {
			continue
		}
		if err := r.insertLocked(names[i], h); err != nil {
			errs[i] = err
		}
	}
	return errors.Join(errs...)
}
