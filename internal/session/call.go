package session

import (
	"context"
	"fmt"

	"crepl/internal/callconv"
	"crepl/internal/diag"
	"crepl/internal/marshal"
	"crepl/internal/output"
	"crepl/internal/sig"
	"crepl/internal/source"
	"crepl/internal/token"
	"crepl/internal/trace"
)

// call runs "<fn> <operand>*": resolve → infer → signature → marshal →
// call → decode. Every allocation made for the line is released before
// call returns, after the foreign function is done with it.
func (s *Session) call(ctx context.Context, line source.Line, fn token.Token, operands []token.Token) error {
	parent := trace.CurrentSpan(ctx)
	whole := source.Span{Line: line.ID, Start: 0, End: line.Len()}

	// resolve
	sp := s.phase(parent, "resolve")
	idx := s.timer.Begin("resolve")
	sym, err := s.reg.Resolve(fn.Text)
	s.timer.End(idx, "")
	if err != nil {
		sp.End("unresolved")
		return at(err, fn.Span)
	}
	sp.WithExtra("library", sym.Library).End(sym.Name)

	// infer + signature
	sp = s.phase(parent, "signature")
	idx = s.timer.Begin("signature")
	args, err := sig.Infer(operands, s.env)
	if err != nil {
		s.timer.End(idx, "")
		sp.End("inference failed")
		return err
	}
	for i, a := range args {
		sp.Point("arg", fmt.Sprintf("#%d %s", i+1, a.Tag))
	}
	signature, err := sig.Build(s.cfg.Backend.Engine, s.mode.ReturnTag(), sig.Tags(args), whole)
	s.timer.End(idx, "")
	if err != nil {
		sp.End("rejected")
		return err
	}
	defer signature.Release()
	sp.End(signature.String())

	// marshal
	sp = s.phase(parent, "marshal")
	idx = s.timer.Begin("marshal")
	frame, err := marshal.Marshal(s.cfg.Backend.Alloc, args)
	s.timer.End(idx, "")
	if err != nil {
		sp.End("failed")
		return err
	}
	defer frame.Release()
	sp.End(fmt.Sprintf("%d values", frame.Len()))

	slot, err := s.cfg.Backend.Alloc.Alloc(callconv.ResultSize)
	if err != nil {
		return cmdErrorf(diag.MarOutOfMemory, whole, "cannot allocate the result slot: %v", err)
	}
	defer s.cfg.Backend.Alloc.Free(slot)

	// call
	sp = s.phase(parent, "call")
	sp.WithExtra("signature", signature.String())
	idx = s.timer.Begin("call")
	signature.Call(sym.Addr, slot, frame.Values())
	if s.cfg.Backend.Flusher != nil {
		s.cfg.Backend.Flusher.Flush()
	}
	s.timer.End(idx, sym.Name)
	sp.End(sym.Name + "@" + sym.Library)

	if s.mode == output.Void {
		return nil
	}

	// decode
	sp = s.phase(parent, "decode")
	idx = s.timer.Begin("decode")
	res, err := output.Decode(s.mode, (*[callconv.ResultSize]byte)(slot), s.cfg.Backend.Memory)
	s.timer.End(idx, "")
	if err != nil {
		sp.End("failed")
		return at(err, fn.Span)
	}
	sp.End(s.mode.String())
	s.last = &res
	fmt.Fprintln(s.cfg.Out, res.Text)
	return nil
}

func (s *Session) phase(parent *trace.Span, name string) *trace.Span {
	return trace.Begin(s.tracer, trace.ScopePhase, name, parent)
}
