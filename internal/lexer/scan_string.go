package lexer

import (
	"strings"
	"unicode/utf8"

	"crepl/internal/diag"
	"crepl/internal/token"
)

// scanString читает "..." и раскрывает escape-последовательности.
// Text — уже раскрытая строка без кавычек; Span покрывает исходник целиком.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		}
		if b == '\\' {
			lx.scanEscape(&sb)
			continue
		}
		sb.WriteByte(lx.cursor.Bump())
	}
	lx.errLex(diag.LexUnterminatedString, lx.cursor.SpanFrom(start), "unterminated string literal")
	return lx.invalid(start)
}

// scanChar читает ровно один символ между одинарными кавычками: 'a', '\n', '\0'.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	if lx.cursor.EOF() || lx.cursor.Peek() == '\'' {
		lx.cursor.Eat('\'')
		lx.errLex(diag.LexBadChar, lx.cursor.SpanFrom(start), "empty character literal")
		return lx.invalid(start)
	}

	var sb strings.Builder
	if lx.cursor.Peek() == '\\' {
		lx.scanEscape(&sb)
	} else {
		mark := lx.cursor.Off
		lx.bumpRune()
		sb.WriteString(lx.line.Text[mark:lx.cursor.Off])
	}

	if !lx.cursor.Eat('\'') {
		lx.errLex(diag.LexBadChar, lx.cursor.SpanFrom(start), "character literal must hold exactly one character")
		return lx.invalid(start)
	}
	return token.Token{Kind: token.CharLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
}

// scanEscape consumes '\' and what follows, writing the decoded bytes.
// Unknown escapes are reported and kept verbatim.
func (lx *Lexer) scanEscape(sb *strings.Builder) {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '\'
	if lx.cursor.EOF() {
		sb.WriteByte('\\')
		return
	}
	b := lx.cursor.Bump()
	switch b {
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'a':
		sb.WriteByte('\a')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case '\\', '"', '\'', '?':
		sb.WriteByte(b)
	case 'x':
		v, n := 0, 0
		for n < 2 && isHex(lx.cursor.Peek()) {
			v = v*16 + hexVal(lx.cursor.Bump())
			n++
		}
		if n == 0 {
			lx.badEscape(start, sb)
			return
		}
		sb.WriteByte(byte(v)) //nolint:gosec // at most two hex digits
	default:
		if isOct(b) {
			v, n := int(b-'0'), 1
			for n < 3 && isOct(lx.cursor.Peek()) {
				v = v*8 + int(lx.cursor.Bump()-'0')
				n++
			}
			if v > 0xFF {
				lx.badEscape(start, sb)
				return
			}
			sb.WriteByte(byte(v))
			return
		}
		if b >= utf8.RuneSelf {
			// multibyte rune after '\': keep it whole
			lx.cursor.Off--
			lx.bumpRune()
		}
		lx.badEscape(start, sb)
	}
}

func (lx *Lexer) badEscape(start Mark, sb *strings.Builder) {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadEscape, sp, "unknown escape sequence")
	sb.WriteString(lx.line.Slice(sp))
}

func hexVal(b byte) int {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0')
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10
	default:
		return int(b-'A') + 10
	}
}

