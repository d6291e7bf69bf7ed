package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/render"
	"github.com/mattn/go-runewidth"
)

// PrakriyaModel shows the derivation of the selected form in a scrollable
// viewport.
type PrakriyaModel struct {
	renderer *render.Renderer
	viewport viewport.Model

	form    *paradigm.Form
	text    string // rendered trace, for copying
	loading bool
	err     error
}

// NewPrakriyaModel creates an empty trace pane.
func NewPrakriyaModel(r *render.Renderer) PrakriyaModel {
	return PrakriyaModel{
		renderer: r,
		viewport: viewport.New(0, 0),
	}
}

// SetSize updates the pane dimensions.
func (m *PrakriyaModel) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
	if m.text != "" {
		m.viewport.SetContent(wrapLines(m.text, width))
	}
}

// Clear empties the pane.
func (m *PrakriyaModel) Clear() {
	m.form = nil
	m.text = ""
	m.loading = false
	m.err = nil
	m.viewport.SetContent("")
}

// SetLoading shows that the derivation of f is being resolved.
func (m *PrakriyaModel) SetLoading(f paradigm.Form) {
	m.Clear()
	m.form = &f
	m.loading = true
}

// SetError shows why the derivation of f could not be resolved.
func (m *PrakriyaModel) SetError(f paradigm.Form, err error) {
	m.Clear()
	m.form = &f
	m.err = err
}

// SetTrace shows the derivation p of f.
func (m *PrakriyaModel) SetTrace(f paradigm.Form, p engine.Prakriya) {
	m.Clear()
	m.form = &f

	text, err := m.renderer.TraceString(p)
	if err != nil {
		m.err = err
		return
	}
	m.text = text
	m.viewport.SetContent(wrapLines(text, m.viewport.Width))
	m.viewport.GotoTop()
}

// Text returns the rendered trace, or "" if none is shown.
func (m PrakriyaModel) Text() string {
	return m.text
}

// Update scrolls the viewport.
func (m PrakriyaModel) Update(msg tea.Msg) (PrakriyaModel, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the pane.
func (m PrakriyaModel) View() string {
	if m.form == nil {
		return mutedStyle.Render("select a form to see its derivation")
	}

	var b strings.Builder
	b.WriteString(subtitleStyle.Render(m.form.Label()))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(loadingStyle.Render("resolving..."))
	case errors.Is(m.err, paradigm.ErrNotFound):
		b.WriteString(mutedStyle.Render("derivation unavailable"))
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	default:
		b.WriteString(m.viewport.View())
	}

	return b.String()
}

// wrapLines word-wraps each line of s to width. Continuation lines get four
// more spaces than the line's own indent.
func wrapLines(s string, width int) string {
	var out []string
	for _, line := range strings.Split(strings.TrimRight(s, "\n"), "\n") {
		indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
		if width <= 0 || runewidth.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		wrapped := wordWrap(line, width-len(indent)-4)
		for i, w := range strings.Split(wrapped, "\n") {
			if i == 0 {
				out = append(out, indent+w)
			} else {
				out = append(out, indent+"    "+w)
			}
		}
	}
	return strings.Join(out, "\n")
}

func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	words := strings.Fields(s)
	for _, word := range words {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, "\n")
}
