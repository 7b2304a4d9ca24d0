// Package session runs command lines: it owns the library registry, the
// variable environment and the output mode, and drives the call pipeline
// for every line that names a function.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"crepl/internal/callconv"
	"crepl/internal/diag"
	"crepl/internal/diagfmt"
	"crepl/internal/expr"
	"crepl/internal/lexer"
	"crepl/internal/observ"
	"crepl/internal/output"
	"crepl/internal/registry"
	"crepl/internal/source"
	"crepl/internal/token"
	"crepl/internal/trace"
)

// Backend bundles the native collaborators of a session.
type Backend struct {
	Opener  registry.Opener
	Engine  callconv.Engine
	Alloc   callconv.Allocator
	Flusher callconv.Flusher
	Memory  output.Memory
}

// Config configures a Session. Zero values pick the defaults noted.
type Config struct {
	Backend Backend

	DefaultLibrary string   // "" = registry.DefaultLibrary()
	Preload        []string // loaded after the default library, in order
	PreloadWorkers int      // 0 = 4
	OnPreload      registry.ProgressFunc

	Mode           output.Mode // zero value is output.Int
	MaxDiagnostics int         // 0 = 100
	Scripted       bool

	Out io.Writer // results
	Err io.Writer // diagnostics and messages

	Color   bool
	Quiet   bool
	Timings bool

	Tracer    trace.Tracer
	Heartbeat time.Duration
}

// Session is one interactive or scripted run. It is not safe for concurrent
// use: lines execute one at a time, start to finish.
type Session struct {
	cfg    Config
	id     uuid.UUID
	reg    *registry.Registry
	env    *expr.Env
	mode   output.Mode
	last   *output.Result
	bag    *diag.Bag
	timer  *observ.Timer
	lineID source.LineID
	failed int

	tracer trace.Tracer
	span   *trace.Span
	beat   *trace.Heartbeat
}

// New loads the default library and the preload list. Only a failure to
// load the default library is fatal; preload failures are reported on Err.
func New(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Backend.Opener == nil || cfg.Backend.Engine == nil || cfg.Backend.Alloc == nil {
		return nil, errors.New("session: backend is incomplete")
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	if cfg.Err == nil {
		cfg.Err = io.Discard
	}
	if cfg.Backend.Memory == nil {
		cfg.Backend.Memory = output.ProcessMemory{}
	}
	if cfg.Tracer == nil {
		cfg.Tracer = trace.Nop
	}
	if cfg.DefaultLibrary == "" {
		cfg.DefaultLibrary = registry.DefaultLibrary()
	}
	if cfg.PreloadWorkers <= 0 {
		cfg.PreloadWorkers = 4
	}

	s := &Session{
		cfg:    cfg,
		id:     uuid.New(),
		env:    expr.NewEnv(),
		mode:   cfg.Mode,
		bag:    diag.NewBag(cfg.MaxDiagnostics),
		timer:  observ.NewTimer(),
		tracer: cfg.Tracer,
	}
	s.span = trace.Begin(s.tracer, trace.ScopeSession, "session", nil).WithExtra("id", s.id.String())

	startup := trace.Begin(s.tracer, trace.ScopePhase, "startup", s.span)
	reg, err := registry.New(cfg.Backend.Opener, cfg.DefaultLibrary)
	if err != nil {
		startup.End("default library failed")
		s.span.End("")
		return nil, fmt.Errorf("load default library %s: %w", cfg.DefaultLibrary, err)
	}
	s.reg = reg
	if err := reg.PreloadWithProgress(ctx, cfg.Preload, cfg.PreloadWorkers, cfg.OnPreload); err != nil {
		for _, e := range splitJoined(err) {
			s.bag.AddError(e)
		}
		s.flushDiagnostics(source.Line{})
	}
	startup.WithExtra("libraries", strings.Join(reg.List(), ",")).End("")

	s.beat = trace.StartHeartbeat(s.tracer, cfg.Heartbeat)
	return s, nil
}

// ID returns the session identifier attached to trace output.
func (s *Session) ID() string { return s.id.String() }

// Mode returns the active output mode.
func (s *Session) Mode() output.Mode { return s.mode }

// Libraries returns the loaded library names in load order.
func (s *Session) Libraries() []string { return s.reg.List() }

// Env exposes the variable environment.
func (s *Session) Env() *expr.Env { return s.env }

// Last returns the last formatted result, if any.
func (s *Session) Last() (output.Result, bool) {
	if s.last == nil {
		return output.Result{}, false
	}
	return *s.last, true
}

// Failures counts lines that ended with error diagnostics.
func (s *Session) Failures() int { return s.failed }

// Close releases every library handle. Symbols resolved earlier become
// invalid.
func (s *Session) Close() error {
	s.beat.Stop()
	err := s.reg.Close()
	s.span.End(fmt.Sprintf("%d lines, %d failed", s.lineID, s.failed))
	return errors.Join(err, s.tracer.Flush())
}

// LineSource yields command lines; io.EOF ends the session.
type LineSource interface {
	ReadLine(ctx context.Context) (string, error)
}

// Run reads and executes lines until EOF, ":q" or ctx is done. Failed lines
// never stop the loop.
func (s *Session) Run(ctx context.Context, src LineSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		text, err := src.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Exec(ctx, text); errors.Is(err, ErrQuit) {
			return nil
		}
	}
}

// Exec runs one command line. It returns nil on success, ErrQuit for ":q",
// or a *LineError whose diagnostics were already written to Err.
func (s *Session) Exec(ctx context.Context, text string) error {
	s.lineID++
	flags := source.LineInteractive
	if s.cfg.Scripted {
		flags = source.LineScripted
	}
	line := source.NewLine(s.lineID, text, flags)
	s.bag.Reset()
	s.timer.Reset()

	cmd := trace.Begin(s.tracer, trace.ScopeCommand, "command", s.span).WithExtra("line", fmt.Sprint(line.ID))
	ctx = trace.WithSpan(ctx, cmd)

	lex := s.timer.Begin("lex")
	toks := lexer.Tokenize(line, lexer.Options{Reporter: diag.BagReporter{Bag: s.bag}})
	s.timer.End(lex, "")

	var err error
	// ошибки лексера не отменяют строку: выполняется то, что распознано
	if len(toks) > 0 {
		err = s.dispatch(ctx, line, toks)
	}
	if err != nil && !errors.Is(err, ErrQuit) {
		s.bag.AddError(err)
	}

	failed := s.bag.HasErrors()
	s.flushDiagnostics(line)
	if s.cfg.Timings && s.timer.Len() > 1 {
		fmt.Fprintln(s.cfg.Err, s.timer.Summary())
	}
	s.finishTrace(cmd, failed)

	if errors.Is(err, ErrQuit) {
		return ErrQuit
	}
	if failed {
		s.failed++
		return &LineError{Line: line, Diagnostics: append([]diag.Diagnostic(nil), s.bag.Items()...)}
	}
	return nil
}

func (s *Session) dispatch(ctx context.Context, line source.Line, toks []token.Token) error {
	head, operands := toks[0], toks[1:]
	switch head.Kind {
	case token.Command:
		return s.directive(ctx, line, head, operands)
	case token.Ident:
		return s.call(ctx, line, head, operands)
	default:
		return cmdErrorf(diag.CmdExpected, head.Span, "expected a function name or a command, found %s %q", head.Kind, line.Slice(head.Span))
	}
}

func (s *Session) flushDiagnostics(line source.Line) {
	if s.bag.Len() == 0 {
		return
	}
	s.bag.Sort()
	s.bag.Dedup()
	diagfmt.Pretty(s.cfg.Err, s.bag, line, diagfmt.PrettyOpts{Color: s.cfg.Color, ShowNotes: true, Echo: true})
}

func (s *Session) finishTrace(cmd *trace.Span, failed bool) {
	detail := "ok"
	if failed {
		detail = "failed"
	}
	cmd.End(detail)
	ring, ok := trace.Ring(s.tracer)
	if !ok {
		return
	}
	if failed && s.tracer.Level() == trace.LevelError {
		_ = ring.Dump(s.cfg.Err, trace.FormatText)
	}
	if s.tracer.Level() == trace.LevelError {
		ring.Reset()
	}
}

// info prints a status message unless Quiet is set.
func (s *Session) info(format string, args ...any) {
	if s.cfg.Quiet {
		return
	}
	fmt.Fprintf(s.cfg.Err, format+"\n", args...)
}
