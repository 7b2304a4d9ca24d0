package expr

import (
	"errors"

	"crepl/internal/diag"
	"crepl/internal/literal"
	"crepl/internal/source"
	"crepl/internal/token"
)

// Приоритеты: сравнения 0, +- 1, */ 2; все левоассоциативны.
func infixPrec(k token.Kind) (int, bool) {
	switch k {
	case token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq:
		return 0, true
	case token.Plus, token.Minus:
		return 1, true
	case token.Star, token.Slash:
		return 2, true
	default:
		return 0, false
	}
}

type parser struct {
	toks []token.Token
	pos  int
	end  source.Span
}

// Parse builds an expression tree from toks. It must consume every token.
// end is where "unexpected end of input" is reported.
func Parse(toks []token.Token, end source.Span) (Node, error) {
	p := &parser{toks: append([]token.Token(nil), toks...), end: end}
	n, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		t := p.toks[p.pos]
		return nil, errorf(diag.EvlSyntax, t.Span, "unexpected %s %q after expression", t.Kind, t.Text)
	}
	return n, nil
}

func (p *parser) peek() (token.Token, bool) {
	if p.pos >= len(p.toks) {
		return token.Token{}, false
	}
	return p.toks[p.pos], true
}

func (p *parser) parseExpr(minPrec int) (Node, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.peek()
		if !ok {
			return lhs, nil
		}
		op, opSp := tok.Kind, tok.Span
		signed := tok.IsSignedNumber()
		if signed {
			// "a -1": лексер склеил знак с числом, в инфиксной позиции это оператор
			op = token.Plus
			if tok.Text[0] == '-' {
				op = token.Minus
			}
			opSp = source.Span{Line: tok.Span.Line, Start: tok.Span.Start, End: tok.Span.Start + 1}
		}
		prec, infix := infixPrec(op)
		if !infix || prec < minPrec {
			return lhs, nil
		}
		if signed {
			p.toks[p.pos] = token.Token{
				Kind: tok.Kind,
				Span: source.Span{Line: tok.Span.Line, Start: tok.Span.Start + 1, End: tok.Span.End},
				Text: tok.Text[1:],
			}
		} else {
			p.pos++
		}
		rhs, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		lhs = &Binary{Op: op, L: lhs, R: rhs, OpSp: opSp}
	}
}

func (p *parser) parsePrimary() (Node, error) {
	tok, ok := p.peek()
	if !ok {
		return nil, errorf(diag.EvlSyntax, p.end, "unexpected end of expression")
	}
	p.pos++

	switch tok.Kind {
	case token.IntLit:
		v, err := literal.ParseInt(tok.Text)
		if err != nil {
			code := diag.EvlSyntax
			if errors.Is(err, literal.ErrRange) {
				code = diag.MarOverflow
			}
			return nil, errorf(code, tok.Span, "invalid integer %s: %v", tok.Text, errors.Unwrap(err))
		}
		return &Lit{Val: Int(v), Sp: tok.Span}, nil
	case token.FloatLit:
		v, err := literal.ParseFloat(tok.Text)
		if err != nil {
			return nil, errorf(diag.EvlSyntax, tok.Span, "invalid number %s: %v", tok.Text, errors.Unwrap(err))
		}
		return &Lit{Val: Num(v), Sp: tok.Span}, nil
	case token.StringLit:
		return &Lit{Val: Str(tok.Text), Sp: tok.Span}, nil
	case token.CharLit:
		r := []rune(tok.Text)
		if len(r) != 1 {
			return nil, errorf(diag.EvlSyntax, tok.Span, "character literal must hold one character")
		}
		return &Lit{Val: Char(r[0]), Sp: tok.Span}, nil
	case token.Ident:
		return &Ref{Name: tok.Text, Sp: tok.Span}, nil
	case token.LParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		closing, ok := p.peek()
		if !ok || closing.Kind != token.RParen {
			sp := p.end
			if ok {
				sp = closing.Span
			}
			return nil, &Error{code: diag.EvlSyntax, span: sp, Msg: "expected ')'"}
		}
		p.pos++
		return inner, nil
	case token.Minus, token.Bang:
		// унарные связывают сильнее любых бинарных
		x, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: tok.Kind, X: x, Sp: tok.Span.Cover(x.Span())}, nil
	default:
		return nil, errorf(diag.EvlSyntax, tok.Span, "unexpected %s %q", tok.Kind, tok.Text)
	}
}
