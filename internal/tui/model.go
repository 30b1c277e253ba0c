// Package tui is the interactive front end: a scrolling transcript above a
// single input line, driving a terminal.Terminal one command at a time.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/m0n0x41d/fote-terminal/internal/terminal"
)

const banner = `FotE Terminal – type "help" to begin.`

type lineKind int

const (
	lineEcho lineKind = iota
	lineOutput
	lineError
	lineStatus
	lineHint
)

type line struct {
	kind lineKind
	text string
}

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	term     *terminal.Terminal
	input    textinput.Model
	viewport viewport.Model
	styles   Styles

	transcript []line
	// recall is the input history for Up/Down; histIdx -1 means "not browsing".
	recall  []string
	histIdx int

	ready bool
}

// New returns a model driving term.
func New(ctx context.Context, term *terminal.Terminal) Model {
	styles := DefaultStyles()

	ti := textinput.New()
	ti.Focus()
	ti.Prompt = term.Prompt() + " "
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 512
	ti.Width = 80

	vp := viewport.New(80, 20)

	m := Model{
		ctx:      ctx,
		term:     term,
		input:    ti,
		viewport: vp,
		styles:   styles,
		histIdx:  -1,
	}
	m.transcript = append(m.transcript, line{lineOutput, banner})
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			m.submit()
			return m, nil

		case tea.KeyUp:
			m.recallPrev()
			return m, nil

		case tea.KeyDown:
			m.recallNext()
			return m, nil

		case tea.KeyTab:
			m.complete()
			return m, nil

		case tea.KeyCtrlL:
			m.transcript = nil
			m.refresh()
			return m, nil
		}
		m.input, tiCmd = m.input.Update(msg)

	case tea.WindowSizeMsg:
		inputHeight := 2
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-inputHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - inputHeight
		}
		m.input.Width = msg.Width - len(m.input.Prompt) - 1
		m.refresh()
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

func (m Model) View() string {
	return m.viewport.View() + "\n" + m.input.View()
}

// Transcript returns the unstyled screen contents.
func (m Model) Transcript() string {
	var sb strings.Builder
	for i, l := range m.transcript {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(l.text)
	}
	return sb.String()
}

func (m *Model) submit() {
	cmd := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	m.transcript = append(m.transcript, line{lineEcho, m.term.Prompt() + " " + cmd})
	if cmd != "" {
		m.recall = append(m.recall, cmd)
		m.histIdx = -1
	}

	out := m.term.Exec(m.ctx, cmd)
	if firstWord(cmd) == "clear" {
		m.transcript = nil
	} else if out != "" {
		kind := lineOutput
		if strings.HasPrefix(out, "Error: ") {
			kind = lineError
		}
		m.transcript = append(m.transcript, line{kind, out})
	}
	if status := m.term.Session().StatusLine(); status != "" && cmd != "" {
		m.transcript = append(m.transcript, line{lineStatus, status})
	}

	m.input.Prompt = m.term.Prompt() + " "
	m.refresh()
}

func (m *Model) recallPrev() {
	if len(m.recall) == 0 {
		return
	}
	if m.histIdx < 0 {
		m.histIdx = len(m.recall) - 1
	} else {
		m.histIdx = max(0, m.histIdx-1)
	}
	m.input.SetValue(m.recall[m.histIdx])
	m.input.CursorEnd()
}

func (m *Model) recallNext() {
	if len(m.recall) == 0 || m.histIdx < 0 {
		return
	}
	m.histIdx++
	if m.histIdx >= len(m.recall) {
		m.histIdx = -1
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.recall[m.histIdx])
	m.input.CursorEnd()
}

func (m *Model) complete() {
	completed, candidates := m.term.Complete(m.input.Value())
	m.input.SetValue(completed)
	m.input.CursorEnd()
	if len(candidates) > 1 {
		m.transcript = append(m.transcript, line{lineHint, strings.Join(candidates, "  ")})
		m.refresh()
	}
}

func (m *Model) refresh() {
	var sb strings.Builder
	for i, l := range m.transcript {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.render(l))
	}
	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func (m *Model) render(l line) string {
	switch l.kind {
	case lineEcho:
		return m.styles.Echo.Render(l.text)
	case lineError:
		return m.styles.Error.Render(l.text)
	case lineStatus:
		return m.styles.Status.Render(l.text)
	case lineHint:
		return m.styles.Hint.Render(l.text)
	default:
		return m.styles.Output.Render(l.text)
	}
}

func firstWord(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}
