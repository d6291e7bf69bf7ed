package views

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/render"
	"github.com/mattn/go-runewidth"
)

// FormChosenMsg is sent when the user picks a form from the paradigm.
type FormChosenMsg struct {
	Form paradigm.Form
}

// FormsModel shows the paradigm of the active root and lets the user move a
// cursor over its forms.
type FormsModel struct {
	renderer *render.Renderer

	finite  *paradigm.Finite
	derived *paradigm.Derived
	forms   []paradigm.Form
	cursor  int
	active  int // index of the selected form, -1 if none

	loading bool
	err     error
	empty   string

	width  int
	height int
}

// NewFormsModel creates an empty forms pane.
func NewFormsModel(r *render.Renderer) FormsModel {
	return FormsModel{
		renderer: r,
		active:   -1,
		empty:    "select a root",
	}
}

// SetSize updates the pane dimensions.
func (m *FormsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Clear empties the pane and shows msg instead.
func (m *FormsModel) Clear(msg string) {
	*m = FormsModel{
		renderer: m.renderer,
		active:   -1,
		empty:    msg,
		width:    m.width,
		height:   m.height,
	}
}

// SetLoading shows a loading indicator in place of the paradigm.
func (m *FormsModel) SetLoading() {
	m.Clear("")
	m.loading = true
}

// SetError shows err in place of the paradigm.
func (m *FormsModel) SetError(err error) {
	m.Clear("")
	m.err = err
}

// SetFinite shows a finite paradigm.
func (m *FormsModel) SetFinite(p *paradigm.Finite) {
	m.Clear("no forms")
	m.finite = p
	m.forms = p.Forms()
}

// SetDerived shows the derived forms of a root.
func (m *FormsModel) SetDerived(d *paradigm.Derived) {
	m.Clear("no forms")
	m.derived = d
	m.forms = d.Forms()
}

// SetActive marks the selected form; a zero Form clears the mark.
func (m *FormsModel) SetActive(f paradigm.Form) {
	m.active = -1
	for i, g := range m.forms {
		if g.Same(f) {
			m.active = i
			return
		}
	}
}

// Current returns the form under the cursor.
func (m FormsModel) Current() (paradigm.Form, bool) {
	if m.cursor >= len(m.forms) {
		return paradigm.Form{}, false
	}
	return m.forms[m.cursor], true
}

// Loading reports whether a paradigm is being generated.
func (m FormsModel) Loading() bool {
	return m.loading
}

// Update handles messages.
func (m FormsModel) Update(msg tea.Msg) (FormsModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.forms) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k", "left", "h":
		m.cursor = max(m.cursor-1, 0)
	case "down", "j", "right", "l":
		m.cursor = min(m.cursor+1, len(m.forms)-1)
	case "home", "g":
		m.cursor = 0
	case "end", "G":
		m.cursor = len(m.forms) - 1
	case "enter":
		f := m.forms[m.cursor]
		return m, func() tea.Msg { return FormChosenMsg{Form: f} }
	}
	return m, nil
}

// View renders the paradigm.
func (m FormsModel) View() string {
	switch {
	case m.loading:
		return loadingStyle.Render("generating...")
	case m.err != nil:
		return errorStyle.Render("Error: " + m.err.Error())
	case len(m.forms) == 0:
		return mutedStyle.Render(m.empty)
	}

	var lines []string
	cursorLine := 0
	if m.finite != nil {
		lines, cursorLine = m.finiteLines()
	} else {
		lines, cursorLine = m.derivedLines()
	}

	// Keep the cursor visible.
	rows := max(m.height, 1)
	start := 0
	if cursorLine >= rows {
		start = cursorLine - rows + 1
	}
	end := min(start+rows, len(lines))
	return strings.Join(lines[start:end], "\n")
}

func (m FormsModel) finiteLines() ([]string, int) {
	p := m.finite
	header := fmt.Sprintf("%s · %s", p.Root, p.Prayoga)
	if p.Sanadi != nil {
		header += " · " + p.Sanadi.String()
	}
	lines := []string{subtitleStyle.Render(header)}

	idx, cursorLine := 0, 0
	for _, t := range p.Tables {
		lines = append(lines, "", subtitleStyle.Render(fmt.Sprintf("%s (%s)", t.Lakara, t.Pada)))

		// Column widths over the whole table so the grid lines up.
		widths := make([]int, len(grammar.Vacanas))
		for _, pu := range grammar.Purushas {
			for j, v := range grammar.Vacanas {
				forms, _ := t.Cell(pu, v)
				widths[j] = max(widths[j], runewidth.StringWidth(m.plainCell(forms)))
			}
		}

		for _, pu := range grammar.Purushas {
			var row strings.Builder
			row.WriteString("  ")
			for j, v := range grammar.Vacanas {
				forms, _ := t.Cell(pu, v)
				plain := m.plainCell(forms)
				if len(forms) == 0 {
					row.WriteString(mutedStyle.Render(plain))
				}
				for k := range forms {
					if k > 0 {
						row.WriteString(", ")
					}
					row.WriteString(m.styleForm(idx))
					if idx == m.cursor {
						cursorLine = len(lines)
					}
					idx++
				}
				if j < len(widths)-1 {
					row.WriteString(strings.Repeat(" ", widths[j]-runewidth.StringWidth(plain)+2))
				}
			}
			lines = append(lines, row.String())
		}
	}
	return lines, cursorLine
}

func (m FormsModel) derivedLines() ([]string, int) {
	d := m.derived
	lines := []string{subtitleStyle.Render(d.Root)}

	width := 0
	for _, g := range d.Groups {
		width = max(width, runewidth.StringWidth(g.Krt.String()))
	}

	idx, cursorLine := 0, 0
	for _, g := range d.Groups {
		var row strings.Builder
		row.WriteString("  ")
		row.WriteString(render.Pad(g.Krt.String(), width))
		row.WriteString("  ")
		if len(g.Forms) == 0 {
			row.WriteString(mutedStyle.Render("-"))
		}
		for k := range g.Forms {
			if k > 0 {
				row.WriteString(", ")
			}
			row.WriteString(m.styleForm(idx))
			if idx == m.cursor {
				cursorLine = len(lines)
			}
			idx++
		}
		lines = append(lines, row.String())
	}
	return lines, cursorLine
}

func (m FormsModel) plainCell(forms []paradigm.Form) string {
	if len(forms) == 0 {
		return "-"
	}
	return m.renderer.ShowList(forms)
}

func (m FormsModel) styleForm(i int) string {
	text := m.renderer.Show(m.forms[i].Text)
	switch {
	case i == m.cursor:
		return selectedStyle.Render(text)
	case i == m.active:
		return activeStyle.Render(text)
	default:
		return sanskritStyle.Render(text)
	}
}
