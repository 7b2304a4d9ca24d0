package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"crepl/internal/diag"
	"crepl/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	caretColor   = color.New(color.FgGreen, color.Bold)
	noteColor    = color.New(color.FgBlue)
)

// Pretty форматирует диагностики одной командной строки в человекочитаемый вид.
// Для каждого diag печатает:
//
//	error SYM3001: symbol "nope" not found
//	  | nope 1
//	  | ^~~~
//	  = note: searched: libc.so.6
//
// Diagnostics whose span is empty are printed without the echoed line.
func Pretty(w io.Writer, bag *diag.Bag, line source.Line, opts PrettyOpts) {
	for _, d := range bag.Items() {
		PrettyOne(w, d, line, opts)
	}
}

// PrettyOne renders a single diagnostic.
func PrettyOne(w io.Writer, d diag.Diagnostic, line source.Line, opts PrettyOpts) {
	sevText := strings.ToLower(d.Severity.String())
	if opts.Color {
		sevText = severityColor(d.Severity).Sprint(sevText)
	}
	msg := d.Message
	if opts.Width > 0 {
		msg = runewidth.Truncate(msg, int(opts.Width), "...")
	}
	fmt.Fprintf(w, "%s%s %s: %s\n", opts.Prefix, sevText, d.Code.ID(), msg)

	if opts.Echo && !d.Primary.Empty() && line.Text != "" {
		writeSnippet(w, line, d.Primary, opts)
	}
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		label := "note"
		if opts.Color {
			label = noteColor.Sprint(label)
		}
		fmt.Fprintf(w, "%s  = %s: %s\n", opts.Prefix, label, n.Msg)
		if opts.Echo && !n.Span.Empty() && n.Span != d.Primary && line.Text != "" {
			writeSnippet(w, line, n.Span, opts)
		}
	}
}

func writeSnippet(w io.Writer, line source.Line, sp source.Span, opts PrettyOpts) {
	fmt.Fprintf(w, "%s  | %s\n", opts.Prefix, line.Text)
	before := line.Slice(source.Span{Start: 0, End: sp.Start})
	covered := line.Slice(sp)
	pad := strings.Repeat(" ", runewidth.StringWidth(before))
	underline := Underline(runewidth.StringWidth(covered))
	if opts.Color {
		underline = caretColor.Sprint(underline)
	}
	fmt.Fprintf(w, "%s  | %s%s\n", opts.Prefix, pad, underline)
}

// Underline returns "^" followed by width-1 tildes; width below 1 yields "^".
func Underline(width int) string {
	if width < 1 {
		width = 1
	}
	return "^" + strings.Repeat("~", width-1)
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}
