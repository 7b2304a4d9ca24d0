package session

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"crepl/internal/expr"
)

// nameWidth caps the name column of :ls and :pa.
const nameWidth = 40

func column(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}

// writeLibraries prints ":ls" in load order; the newest entry wins on
// resolution and is marked.
func writeLibraries(w io.Writer, names []string, defaultLib string) {
	if len(names) == 0 {
		fmt.Fprintln(w, "no libraries loaded")
		return
	}
	width := 0
	for _, n := range names {
		width = max(width, runewidth.StringWidth(n))
	}
	width = min(width, nameWidth)
	for i, n := range names {
		var tags []string
		if n == defaultLib {
			tags = append(tags, "default")
		}
		if i == len(names)-1 {
			tags = append(tags, "searched first")
		}
		line := fmt.Sprintf("%3d  %s", i+1, column(n, width))
		if len(tags) > 0 {
			line += "  (" + strings.Join(tags, ", ") + ")"
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func writeBinding(w io.Writer, b expr.Binding) {
	kind := "var"
	if b.Const {
		kind = "const"
	}
	fmt.Fprintf(w, "\t- %s -> %s (%s %s)\n", b.Name, b.Value, kind, b.Value.Kind)
}

// writeBindings prints ":pa": variables, then constants, each sorted by name.
func writeBindings(w io.Writer, vars, consts []expr.Binding) {
	writeGroup(w, "vars:", vars)
	fmt.Fprintln(w)
	writeGroup(w, "consts:", consts)
}

func writeGroup(w io.Writer, title string, bs []expr.Binding) {
	fmt.Fprintln(w, title)
	width := 0
	for _, b := range bs {
		width = max(width, runewidth.StringWidth(b.Name))
	}
	width = min(width, nameWidth)
	for _, b := range bs {
		fmt.Fprintf(w, "\t- %s -> %s\n", column(b.Name, width), b.Value)
	}
}

var helpRows = [][2]string{
	{"<fn> <arg>...", "call fn; args are literals or variable names"},
	{":l <library>", "load a shared library"},
	{":ul <library>", "unload a shared library"},
	{":ls", "list loaded libraries"},
	{":d  :f  :c", "show results as int64, double, signed char"},
	{":s  :p  :v", "show results as string, address, nothing"},
	{":r", "show the last result again"},
	{":const <name> <expr>", "define a constant"},
	{":var <name> <expr>", "define or reassign a variable"},
	{":t <name>...", "show variables and constants"},
	{":pa", "show everything defined"},
	{":h", "this help"},
	{":q", "quit"},
}

func writeHelp(w io.Writer) {
	width := 0
	for _, r := range helpRows {
		width = max(width, runewidth.StringWidth(r[0]))
	}
	for _, r := range helpRows {
		fmt.Fprintf(w, "  %s  %s\n", runewidth.FillRight(r[0], width), r[1])
	}
}
