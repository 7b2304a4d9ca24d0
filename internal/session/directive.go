package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"crepl/internal/diag"
	"crepl/internal/expr"
	"crepl/internal/output"
	"crepl/internal/source"
	"crepl/internal/token"
	"crepl/internal/trace"
)

func (s *Session) directive(ctx context.Context, line source.Line, head token.Token, operands []token.Token) error {
	dir := head.Directive()
	end := source.Span{Line: line.ID, Start: line.Len(), End: line.Len()}
	sp := trace.Begin(s.tracer, trace.ScopePhase, "directive", trace.CurrentSpan(ctx))
	defer sp.End(dir.String())

	switch dir {
	case token.DirList, token.DirRedisplay, token.DirShowAll, token.DirHelp, token.DirQuit,
		token.DirModeInt, token.DirModeFloat, token.DirModeChar, token.DirModeVoid, token.DirModeString, token.DirModeAddress:
		if err := noOperands(head, operands); err != nil {
			return err
		}
	}

	if m, ok := output.FromDirective(dir); ok {
		s.mode = m
		s.info("mode: %s", m)
		return nil
	}

	switch dir {
	case token.DirLoad:
		name, err := libraryOperand(head, operands, end)
		if err != nil {
			return err
		}
		return s.load(name)
	case token.DirUnload:
		name, err := libraryOperand(head, operands, end)
		if err != nil {
			return err
		}
		path := expandHome(name.Text)
		if err := s.reg.Unload(path); err != nil {
			return at(err, name.Span)
		}
		s.info("unloaded %s", path)
		return nil
	case token.DirList:
		writeLibraries(s.cfg.Out, s.reg.List(), s.cfg.DefaultLibrary)
		return nil
	case token.DirRedisplay:
		if s.last == nil {
			return cmdErrorf(diag.DecNoResult, head.Span, "no result to display yet")
		}
		fmt.Fprintln(s.cfg.Out, s.last.Text)
		return nil
	case token.DirConst, token.DirVar:
		b, err := expr.Assign(s.env, operands, dir == token.DirConst, end)
		if err != nil {
			return err
		}
		if b.Const {
			s.info("constant '%s' defined", b.Name)
		} else {
			s.info("variable '%s' set", b.Name)
		}
		return nil
	case token.DirShow:
		return s.show(operands, end)
	case token.DirShowAll:
		vars, consts := s.env.All()
		writeBindings(s.cfg.Out, vars, consts)
		return nil
	case token.DirHelp:
		writeHelp(s.cfg.Out)
		return nil
	case token.DirQuit:
		return ErrQuit
	}
	return cmdErrorf(diag.LexUnknownCommand, head.Span, "unknown command %q", head.Text)
}

func (s *Session) load(name token.Token) error {
	path := expandHome(name.Text)
	err := s.reg.Load(path)
	if err != nil && !isWarning(err) {
		return at(err, name.Span)
	}
	if err != nil {
		s.bag.AddError(at(err, name.Span))
	}
	s.info("loaded %s", path)
	return nil
}

// show prints ":t a b c". A bad operand is reported and the rest are
// still shown.
func (s *Session) show(operands []token.Token, end source.Span) error {
	if len(operands) == 0 {
		return cmdErrorf(diag.CmdUsage, end, "usage: :t <name>...")
	}
	for _, op := range operands {
		if op.Kind != token.Ident {
			s.bag.AddError(cmdErrorf(diag.CmdExpected, op.Span, "%q was expected to be an identifier", op.Text))
			continue
		}
		b, ok := s.env.Lookup(op.Text)
		if !ok {
			s.bag.AddError(cmdErrorf(diag.EvlUndefined, op.Span, "%q is not defined", op.Text))
			continue
		}
		writeBinding(s.cfg.Out, b)
	}
	return nil
}

func noOperands(head token.Token, operands []token.Token) error {
	if len(operands) == 0 {
		return nil
	}
	sp := operands[0].Span.Cover(operands[len(operands)-1].Span)
	return cmdErrorf(diag.CmdUsage, sp, "%s takes no arguments", head.Text)
}

// libraryOperand accepts libm.so.6, "libm.so.6" or a bare name.
func libraryOperand(head token.Token, operands []token.Token, end source.Span) (token.Token, error) {
	if len(operands) == 0 {
		return token.Token{}, cmdErrorf(diag.CmdUsage, end, "usage: %s <library>", head.Text)
	}
	name := operands[0]
	switch name.Kind {
	case token.FileName, token.StringLit, token.Ident:
	default:
		return token.Token{}, cmdErrorf(diag.CmdExpected, name.Span, "expected a library name, found %s", name.Kind)
	}
	if len(operands) > 1 {
		sp := operands[1].Span.Cover(operands[len(operands)-1].Span)
		return token.Token{}, cmdErrorf(diag.CmdUsage, sp, "%s takes exactly one library", head.Text)
	}
	return name, nil
}

func expandHome(name string) string {
	rest, ok := strings.CutPrefix(name, "~/")
	if !ok {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, rest)
}
