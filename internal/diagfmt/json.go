package diagfmt

import (
	"encoding/json"
	"io"

	"crepl/internal/diag"
	"crepl/internal/source"
)

// LocationJSON представляет местоположение в командной строке для JSON
type LocationJSON struct {
	Line      uint32 `json:"line"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	Text      string `json:"text,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
}

func makeLocation(sp source.Span, line source.Line, includeText bool) *LocationJSON {
	if sp.Empty() {
		return nil
	}
	loc := &LocationJSON{Line: uint32(sp.Line), StartByte: sp.Start, EndByte: sp.End}
	if includeText {
		loc.Text = line.Slice(sp)
	}
	return loc
}

// BuildDiagnosticsOutput converts a bag into its JSON shape.
func BuildDiagnosticsOutput(bag *diag.Bag, line source.Line, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	if opts.Max > 0 && len(items) > opts.Max {
		items = items[:opts.Max]
	}
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(items)), Count: len(items)}
	for _, d := range items {
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Message:  d.Message,
			Location: makeLocation(d.Primary, line, opts.IncludeText),
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				dj.Notes = append(dj.Notes, NoteJSON{Message: n.Msg, Location: makeLocation(n.Span, line, opts.IncludeText)})
			}
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	return out
}

// JSON пишет диагностики строки одним JSON объектом.
func JSON(w io.Writer, bag *diag.Bag, line source.Line, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, line, opts))
}
