package lexer

import (
	"crepl/internal/source"
	"crepl/internal/token"
)

type Lexer struct {
	line   source.Line
	cursor Cursor
	opts   Options
	look   *token.Token // 1 элементный буфер для токена
}

func New(line source.Line, opts Options) *Lexer {
	return &Lexer{
		line:   line,
		cursor: NewCursor(line),
		opts:   opts,
	}
}

// Tokenize lexes the whole line. Invalid tokens are reported through opts and dropped,
// so the result holds only recognized tokens, in source order, without EOF.
func Tokenize(line source.Line, opts Options) []token.Token {
	lx := New(line, opts)
	out := make([]token.Token, 0, 8)
	for {
		tok := lx.Next()
		if tok.Kind == token.EOF {
			return out
		}
		if tok.Kind == token.Invalid {
			continue
		}
		out = append(out, tok)
	}
}

// Next возвращает следующий токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipSpace()
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	ch := lx.cursor.Peek()
	switch {
	case isIdentStartByte(ch):
		return lx.scanIdentOrFileName()

	case isDec(ch), ch == '.' && lx.isNumberAfterDot():
		return lx.scanNumber()

	case (ch == '-' || ch == '+') && lx.isNumberAfterSign():
		// знак прилипает к числу: "-5" это один литерал
		return lx.scanNumber()

	case ch == '/' || ch == '.' || ch == '~':
		if tok, ok := lx.scanPath(); ok {
			return tok
		}
		return lx.scanOperator()

	case ch == '"':
		return lx.scanString()

	case ch == '\'':
		return lx.scanChar()

	case ch == ':':
		return lx.scanCommand()

	default:
		return lx.scanOperator()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) skipSpace() {
	for !lx.cursor.EOF() && isSpace(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{Line: lx.line.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: lx.line.Slice(sp)}
}

func (lx *Lexer) invalid(start Mark) token.Token {
	return lx.emit(token.Invalid, start)
}
