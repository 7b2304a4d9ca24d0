package lexer

import (
	"fmt"

	"crepl/internal/source"

	"fortio.org/safecast"
)

// Cursor представляет собой позицию в строке команды
type Cursor struct {
	Line  source.Line
	Off   uint32
	Limit uint32
}

// NewCursor creates a new cursor for the provided line.
func NewCursor(l source.Line) Cursor {
	limit, err := safecast.Conv[uint32](len(l.Text))
	if err != nil {
		panic(fmt.Errorf("line length overflow: %w", err))
	}
	return Cursor{Line: l, Off: 0, Limit: limit}
}

// EOF проверяет, достигнут ли конец строки
func (c *Cursor) EOF() bool {
	return c.Off >= c.Limit
}

// Peek читает текущий байт, если есть, иначе возвращает 0
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.Line.Text[c.Off]
}

// Peek2 читает текущий и следующий байт, если есть, иначе возвращает 0, 0, false
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.Line.Text[c.Off], c.Line.Text[c.Off+1], true
}

// Peek3 читает три байта начиная с текущего
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.Limit {
		return 0, 0, 0, false
	}
	return c.Line.Text[c.Off], c.Line.Text[c.Off+1], c.Line.Text[c.Off+2], true
}

// Bump перемещает курсор на один байт вперед и возвращает прочитанный байт
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.Line.Text[c.Off]
	c.Off++
	return b
}

// Mark это метка, что бы быстро получать Span читаемого фрагмента
type Mark uint32

// Mark сохраняет текущую позицию курсора
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom получает Span для фрагмента, начиная с метки
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		Line:  c.Line.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset возвращает курсор назад к метке
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.Line.Text[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
