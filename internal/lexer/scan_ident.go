package lexer

import (
	"strings"

	"crepl/internal/token"
)

// scanIdentOrFileName сканирует [A-Za-z_][A-Za-z0-9_]* и затем сегменты ".[A-Za-z0-9_]+".
// Хотя бы один сегмент — это FileName ("libm.so.6"), иначе Ident.
// Точка, за которой не идёт сегмент, в токен не входит.
func (lx *Lexer) scanIdentOrFileName() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}

	kind := token.Ident
	for {
		b0, b1, ok := lx.cursor.Peek2()
		if !ok || b0 != '.' || !isIdentContinueByte(b1) {
			break
		}
		kind = token.FileName
		lx.cursor.Bump() // '.'
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	// "libfoo-1.2.so" / "libstdc++.so.6": если имя продолжается байтами пути, читаем как путь
	if b := lx.cursor.Peek(); b == '-' || b == '+' || b == '/' {
		mark := lx.cursor.Mark()
		for isPathByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		text := lx.line.Slice(lx.cursor.SpanFrom(start))
		if looksLikeLibrary(text) {
			return lx.emit(token.FileName, start)
		}
		lx.cursor.Reset(mark)
	}

	return lx.emit(kind, start)
}

// scanPath читает "/usr/lib/libm.so.6", "./libfoo.so", "~/lib/x.so".
// Если фрагмент не похож на файл библиотеки — курсор возвращается, ok=false.
func (lx *Lexer) scanPath() (token.Token, bool) {
	start := lx.cursor.Mark()
	for isPathByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.line.Slice(sp)
	if !strings.Contains(text, "/") || !looksLikeLibrary(text) {
		lx.cursor.Reset(start)
		return token.Token{}, false
	}
	return token.Token{Kind: token.FileName, Span: sp, Text: text}, true
}

// looksLikeLibrary проверяет суффикс последнего сегмента: "x.so", "x.so.6", "x.dylib".
// "x/2.5" в выражении так не выглядит и остаётся операторами.
func looksLikeLibrary(text string) bool {
	base := text
	if i := strings.LastIndexByte(text, '/'); i >= 0 {
		base = text[i+1:]
	}
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, ext := range libraryExts {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}
	// "libm.so.6", "libc.so.6.1"
	idx := strings.Index(base, ".so.")
	if idx <= 0 {
		return false
	}
	for _, part := range strings.Split(base[idx+len(".so."):], ".") {
		if part == "" || strings.TrimLeft(part, "0123456789") != "" {
			return false
		}
	}
	return true
}

var libraryExts = []string{".so", ".dylib", ".bundle", ".dll"}
