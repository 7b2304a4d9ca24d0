package lexer

import (
	"crepl/internal/diag"
	"crepl/internal/token"
)

// Поддержка: [+-]? 0x.., 0b.., 0NNN (octal), decimal, 1.0, .5, 1., 1e-3, 1.0e+10.
// Знак уже проверен вызывающим (isNumberAfterSign).
// Неверные формы — репорт в opts.Reporter, токен Invalid, лексинг продолжается.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if b := lx.cursor.Peek(); b == '-' || b == '+' {
		lx.cursor.Bump()
	}
	digitsStart := lx.cursor.Mark()

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' {
		switch b1 {
		case 'x', 'X':
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.finishRadix(start, isHex, "hexadecimal")
		case 'b', 'B':
			lx.cursor.Bump()
			lx.cursor.Bump()
			return lx.finishRadix(start, isBin, "binary")
		}
	}

	kind := token.IntLit
	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	// дробная часть: "1." тоже float
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// экспонента только если за ней цифры, иначе "1e" = "1" + "e"
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if isDec(lx.cursor.Peek()) {
			kind = token.FloatLit
			for isDec(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
		} else {
			lx.cursor.Reset(mark)
		}
	}

	if kind == token.IntLit {
		digits := lx.line.Slice(lx.cursor.SpanFrom(digitsStart))
		if len(digits) > 1 && digits[0] == '0' {
			for i := 1; i < len(digits); i++ {
				if !isOct(digits[i]) {
					lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "invalid digit in octal literal")
					return lx.invalid(start)
				}
			}
		}
	}

	return lx.finishNumber(kind, start)
}

func (lx *Lexer) finishRadix(start Mark, digit func(byte) bool, base string) token.Token {
	n := 0
	for digit(lx.cursor.Peek()) {
		lx.cursor.Bump()
		n++
	}
	if n == 0 {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "expected "+base+" digits")
		return lx.invalid(start)
	}
	return lx.finishNumber(token.IntLit, start)
}

// finishNumber отклоняет хвосты вида "12abc" / "0x1g".
func (lx *Lexer) finishNumber(kind token.Kind, start Mark) token.Token {
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		lx.errLex(diag.LexBadNumber, lx.cursor.SpanFrom(start), "invalid suffix on number literal")
		return lx.invalid(start)
	}
	return lx.emit(kind, start)
}
