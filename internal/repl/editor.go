package repl

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// lineModel edits one line. Up/Down walk the history; Ctrl+D on an empty
// line ends input; Ctrl+C drops the current line.
type lineModel struct {
	input   textinput.Model
	history []string
	pos     int    // len(history) = the line being typed
	draft   string // the line being typed while browsing history
	done    bool
	eof     bool
}

func newLineModel(prompt string, history []string, style lipgloss.Style) *lineModel {
	in := textinput.New()
	in.Prompt = prompt
	in.PromptStyle = style
	in.Focus()
	return &lineModel{input: in, history: history, pos: len(history)}
}

func (m *lineModel) Init() tea.Cmd { return textinput.Blink }

func (m *lineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlD:
			if m.input.Value() == "" {
				m.eof = true
				return m, tea.Quit
			}
		case tea.KeyCtrlC:
			m.input.SetValue("")
			m.done = true
			return m, tea.Quit
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *lineModel) recall(step int) {
	next := m.pos + step
	if next < 0 || next > len(m.history) {
		return
	}
	if m.pos == len(m.history) {
		m.draft = m.input.Value()
	}
	m.pos = next
	if m.pos == len(m.history) {
		m.input.SetValue(m.draft)
	} else {
		m.input.SetValue(m.history[m.pos])
	}
	m.input.CursorEnd()
}

// View is empty once the line is finished; Editor echoes it itself so it
// stays in the scrollback.
func (m *lineModel) View() string {
	if m.done || m.eof {
		return ""
	}
	return m.input.View()
}

// Editor is an interactive line reader with history.
type Editor struct {
	in      io.Reader
	out     io.Writer
	prompt  string
	style   lipgloss.Style
	history *History
}

// NewEditor returns an editor. history may be nil.
func NewEditor(in io.Reader, out io.Writer, prompt string, history *History) *Editor {
	if history == nil {
		history = NewHistory(0)
	}
	return &Editor{
		in:      in,
		out:     out,
		prompt:  prompt,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		history: history,
	}
}

func (e *Editor) ReadLine(ctx context.Context) (string, error) {
	m := newLineModel(e.prompt, e.history.Entries(), e.style)
	p := tea.NewProgram(m, tea.WithInput(e.in), tea.WithOutput(e.out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	lm, ok := final.(*lineModel)
	if !ok || lm.eof {
		return "", io.EOF
	}
	line := lm.input.Value()
	fmt.Fprintln(e.out, e.style.Render(e.prompt)+line)
	e.history.Add(line)
	return line, nil
}
