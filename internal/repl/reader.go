// Package repl reads command lines: a plain line reader for pipes and dumb
// terminals, and a Bubble Tea line editor with history for interactive use.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Reader yields command lines; io.EOF ends input.
type Reader interface {
	ReadLine(ctx context.Context) (string, error)
}

// Plain reads lines with bufio. A prompt is written before each line when
// prompt is non-empty.
type Plain struct {
	in      *bufio.Reader
	out     io.Writer
	prompt  string
	history *History
}

// NewPlain returns a Plain reader. history may be nil.
func NewPlain(in io.Reader, out io.Writer, prompt string, history *History) *Plain {
	return &Plain{in: bufio.NewReader(in), out: out, prompt: prompt, history: history}
}

func (p *Plain) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.prompt != "" && p.out != nil {
		fmt.Fprint(p.out, p.prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if p.history != nil {
		p.history.Add(line)
	}
	return line, nil
}

// Lines replays a fixed list, used for "crepl exec a b c".
type Lines struct {
	lines []string
}

func NewLines(lines []string) *Lines { return &Lines{lines: lines} }

func (l *Lines) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(l.lines) == 0 {
		return "", io.EOF
	}
	line := l.lines[0]
	l.lines = l.lines[1:]
	return line, nil
}
