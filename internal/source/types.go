package source

import (
	"fmt"

	"fortio.org/safecast"
)

type (
	// LineID identifies one command line within a session.
	LineID uint32 // порядковый номер введённой строки
	// LineFlags encodes metadata about a command line.
	LineFlags uint8
)

const (
	// LineInteractive marks a line typed at the prompt.
	LineInteractive LineFlags = 1 << iota
	// LineScripted marks a line read from a file, stdin pipe or argv.
	LineScripted
	LineTrimmedCR
)

// Line is a single command line as entered by the user.
type Line struct {
	ID    LineID
	Text  string
	Flags LineFlags
}

// NewLine drops a trailing CRLF/LF and records whether a CR was removed.
func NewLine(id LineID, text string, flags LineFlags) Line {
	if n := len(text); n > 0 && text[n-1] == '\n' {
		text = text[:n-1]
	}
	if n := len(text); n > 0 && text[n-1] == '\r' {
		text = text[:n-1]
		flags |= LineTrimmedCR
	}
	return Line{ID: id, Text: text, Flags: flags}
}

// Len returns the line length as a span offset.
func (l Line) Len() uint32 {
	n, err := safecast.Conv[uint32](len(l.Text))
	if err != nil {
		panic(fmt.Errorf("line length overflow: %w", err))
	}
	return n
}

// Slice returns the text covered by sp. Out-of-range spans are clamped.
func (l Line) Slice(sp Span) string {
	end := min(sp.End, l.Len())
	start := min(sp.Start, end)
	return l.Text[start:end]
}
