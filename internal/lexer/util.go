package lexer

import (
	"unicode/utf8"
)

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// ASCII only; identifiers never contain multibyte runes.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || isDec(b)
}

func isDec(b byte) bool   { return b >= '0' && b <= '9' }
func isOct(b byte) bool   { return b >= '0' && b <= '7' }
func isBin(b byte) bool   { return b == '0' || b == '1' }
func isLower(b byte) bool { return b >= 'a' && b <= 'z' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

func isPathByte(b byte) bool {
	return isIdentContinueByte(b) || b == '.' || b == '/' || b == '-' || b == '+' || b == '~'
}

// Проверка для кейса ".5": текущая точка, дальше цифра?
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// "-5", "+.5"
func (lx *Lexer) isNumberAfterSign() bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || (b0 != '-' && b0 != '+') {
		return false
	}
	if isDec(b1) {
		return true
	}
	_, _, b2, ok3 := lx.cursor.Peek3()
	return ok3 && b1 == '.' && isDec(b2)
}

// bumpRune consumes one UTF-8 rune (at least one byte).
func (lx *Lexer) bumpRune() rune {
	if lx.cursor.EOF() {
		return utf8.RuneError
	}
	r, sz := utf8.DecodeRuneInString(lx.line.Text[lx.cursor.Off:])
	if sz == 0 {
		sz = 1
	}
	lx.cursor.Off += uint32(sz) //nolint:gosec // sz <= utf8.UTFMax
	return r
}

// try2 пробует "съесть" 2 байта, если совпадает.
func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
