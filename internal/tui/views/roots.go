// Package views provides the panes of the explorer.
package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/render"
	"github.com/mattn/go-runewidth"
)

var (
	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	sanskritStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436"))

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)
)

// RootChosenMsg is sent when the user picks a root from the list.
type RootChosenMsg struct {
	Entry lexicon.RootEntry
}

// RootsModel is the filterable root list.
type RootsModel struct {
	input    textinput.Model
	index    *lexicon.Index
	renderer *render.Renderer

	filtered []lexicon.RootEntry
	cursor   int
	offset   int
	active   string // code of the selected root

	width  int
	height int
}

// NewRootsModel creates the root list over index.
func NewRootsModel(index *lexicon.Index, r *render.Renderer) RootsModel {
	ti := textinput.New()
	ti.Placeholder = "filter: भू, bhU, become..."
	ti.Prompt = "/ "
	ti.CharLimit = 40
	ti.PromptStyle = subtitleStyle
	ti.TextStyle = sanskritStyle
	ti.Focus()

	return RootsModel{
		input:    ti,
		index:    index,
		renderer: r,
		filtered: index.Entries(),
	}
}

// SetSize updates the pane dimensions.
func (m *RootsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
	m.clampOffset()
}

// SetActive marks the root with code as selected; "" clears the mark.
func (m *RootsModel) SetActive(code string) {
	m.active = code
}

// Query returns the current filter text.
func (m RootsModel) Query() string {
	return m.input.Value()
}

// Filtered returns the entries currently shown.
func (m RootsModel) Filtered() []lexicon.RootEntry {
	return m.filtered
}

// Cursor returns the highlighted position in Filtered.
func (m RootsModel) Cursor() int {
	return m.cursor
}

// Focus gives the filter input keyboard focus.
func (m *RootsModel) Focus() tea.Cmd {
	return m.input.Focus()
}

// Blur removes keyboard focus from the filter input.
func (m *RootsModel) Blur() {
	m.input.Blur()
}

// Update handles messages.
func (m RootsModel) Update(msg tea.Msg) (RootsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n":
			m.move(1)
			return m, nil
		case "pgup":
			m.move(-m.visibleRows())
			return m, nil
		case "pgdown":
			m.move(m.visibleRows())
			return m, nil
		case "enter":
			if m.cursor < len(m.filtered) {
				e := m.filtered[m.cursor]
				return m, func() tea.Msg { return RootChosenMsg{Entry: e} }
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.refilter()
	}
	return m, cmd
}

func (m *RootsModel) refilter() {
	m.filtered = m.index.Filter(m.input.Value())
	m.cursor = 0
	m.offset = 0
}

func (m *RootsModel) move(delta int) {
	if len(m.filtered) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.filtered)-1)
	m.clampOffset()
}

func (m *RootsModel) visibleRows() int {
	return max(m.height-4, 1)
}

func (m *RootsModel) clampOffset() {
	rows := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// View renders the list.
func (m RootsModel) View() string {
	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("%d / %d roots", len(m.filtered), m.index.Len())))
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(mutedStyle.Render("no matching roots"))
		return b.String()
	}

	end := min(m.offset+m.visibleRows(), len(m.filtered))
	for i := m.offset; i < end; i++ {
		e := m.filtered[i]
		line := fmt.Sprintf("%s %s %s",
			render.Pad(e.Code, 8),
			render.Pad(m.renderer.ShowPlain(e.Upadesha), 10),
			e.Artha)
		line = runewidth.Truncate(line, max(m.width-2, 10), "…")

		switch {
		case i == m.cursor:
			line = selectedStyle.Render(line)
		case e.Code == m.active:
			line = activeStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
