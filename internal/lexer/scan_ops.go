package lexer

import (
	"crepl/internal/diag"
	"crepl/internal/token"
)

// Жадность: сначала 2-символьные (==, !=, <=, >=), затем 1-символьные.
func (lx *Lexer) scanOperator() token.Token {
	start := lx.cursor.Mark()

	switch {
	case lx.try2('=', '='):
		return lx.emit(token.EqEq, start)
	case lx.try2('!', '='):
		return lx.emit(token.BangEq, start)
	case lx.try2('<', '='):
		return lx.emit(token.LtEq, start)
	case lx.try2('>', '='):
		return lx.emit(token.GtEq, start)
	}

	switch lx.cursor.Peek() {
	case '(':
		lx.cursor.Bump()
		return lx.emit(token.LParen, start)
	case ')':
		lx.cursor.Bump()
		return lx.emit(token.RParen, start)
	case '-':
		lx.cursor.Bump()
		return lx.emit(token.Minus, start)
	case '+':
		lx.cursor.Bump()
		return lx.emit(token.Plus, start)
	case '*':
		lx.cursor.Bump()
		return lx.emit(token.Star, start)
	case '/':
		lx.cursor.Bump()
		return lx.emit(token.Slash, start)
	case '<':
		lx.cursor.Bump()
		return lx.emit(token.Lt, start)
	case '>':
		lx.cursor.Bump()
		return lx.emit(token.Gt, start)
	case '!':
		lx.cursor.Bump()
		return lx.emit(token.Bang, start)
	}

	// неизвестный символ: пропускаем руну целиком
	lx.bumpRune()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnknownChar, sp, "unrecognized character "+quoteText(lx.line.Slice(sp)))
	return lx.invalid(start)
}

// scanCommand читает ":" + [a-z]+ и сверяет с закрытым набором директив.
func (lx *Lexer) scanCommand() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // ':'
	for isLower(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	tok := lx.emit(token.Command, start)
	if _, ok := token.LookupDirective(tok.Text); !ok {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownCommand, sp, "unknown command "+quoteText(lx.line.Slice(sp))+" (try :h)")
		return lx.invalid(start)
	}
	return tok
}

func quoteText(s string) string {
	return "`" + s + "`"
}
