package tui

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/dhatu/internal/clipboard"
	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/render"
	"github.com/f3rmion/dhatu/internal/session"
	"github.com/f3rmion/dhatu/internal/tui/banner"
	"github.com/f3rmion/dhatu/internal/tui/views"
	"go.uber.org/zap"
)

// Pane identifies the focused pane.
type Pane int

const (
	PaneRoots Pane = iota
	PaneForms
	PaneTrace
)

const bannerRows = 4

// Deps are the collaborators of the explorer.
type Deps struct {
	Context   context.Context
	Index     *lexicon.Index
	Generator *paradigm.Generator
	Resolver  *paradigm.Resolver
	Renderer  *render.Renderer
	Clipboard clipboard.Writer // nil disables copying
	Banner    *banner.Banner // optional
	Logger    *zap.Logger
}

// Messages carrying asynchronous results. Each records the ticket it was
// started under; results whose ticket is no longer current are dropped.
type finiteMsg struct {
	ticket session.Ticket
	finite *paradigm.Finite
	err    error
}

type derivedMsg struct {
	ticket  session.Ticket
	derived *paradigm.Derived
	err     error
}

type traceMsg struct {
	ticket   session.Ticket
	form     paradigm.Form
	prakriya engine.Prakriya
	err      error
}

type clearCopiedMsg struct{}

func clearCopiedAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// AppModel is the main application model.
type AppModel struct {
	deps  Deps
	state session.State

	roots views.RootsModel
	forms views.FormsModel
	trace views.PrakriyaModel

	focus    Pane
	showHelp bool
	copied   bool
	status   string

	width  int
	height int
}

// NewApp creates the explorer over deps.
func NewApp(deps Deps) AppModel {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return AppModel{
		deps:  deps,
		roots: views.NewRootsModel(deps.Index, deps.Renderer),
		forms: views.NewFormsModel(deps.Renderer),
		trace: views.NewPrakriyaModel(deps.Renderer),
		focus: PaneRoots,
	}
}

// State returns the selection state.
func (m AppModel) State() session.State {
	return m.state
}

// Focus returns the focused pane.
func (m AppModel) Focus() Pane {
	return m.focus
}

// Init initializes the model.
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case views.RootChosenMsg:
		return m.selectRoot(msg.Entry)

	case views.FormChosenMsg:
		return m.selectForm(msg.Form)

	case finiteMsg:
		if !m.current(msg.ticket, "finite paradigm") {
			return m, nil
		}
		if msg.err != nil {
			m.forms.SetError(msg.err)
			return m, nil
		}
		m.forms.SetFinite(msg.finite)
		return m, nil

	case derivedMsg:
		if !m.current(msg.ticket, "derived forms") {
			return m, nil
		}
		if msg.err != nil {
			m.forms.SetError(msg.err)
			return m, nil
		}
		m.forms.SetDerived(msg.derived)
		return m, nil

	case traceMsg:
		if !m.current(msg.ticket, "derivation") {
			return m, nil
		}
		if msg.err != nil {
			m.trace.SetError(msg.form, msg.err)
			return m, nil
		}
		state, err := m.state.ResolveTrace(msg.prakriya)
		if err != nil {
			m.trace.SetError(msg.form, err)
			return m, nil
		}
		m.state = state
		m.trace.SetTrace(msg.form, msg.prakriya)
		return m, nil

	case clearCopiedMsg:
		m.copied = false
		return m, nil
	}

	// Cursor blink and friends go to the filter input.
	var cmd tea.Cmd
	m.roots, cmd = m.roots.Update(msg)
	return m, cmd
}

func (m AppModel) current(t session.Ticket, what string) bool {
	if m.state.Current(t) {
		return true
	}
	m.deps.Logger.Debug("dropping stale result",
		zap.String("kind", what),
		zap.String("root", t.Root),
		zap.Uint64("gen", t.Gen))
	return false
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.setFocus((m.focus + 1) % 3)
	case "shift+tab":
		return m.setFocus((m.focus + 2) % 3)
	}

	// The filter input owns printable keys while focused.
	if m.focus == PaneRoots {
		if msg.String() == "esc" {
			if _, ok := m.state.Root(); ok {
				return m.clearRoot()
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.roots, cmd = m.roots.Update(msg)
		m.state = m.state.SetQuery(m.roots.Query())
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "/":
		return m.setFocus(PaneRoots)
	case "t":
		next := session.TabKrt
		if m.state.Tab() == session.TabKrt {
			next = session.TabTin
		}
		return m.changeTab(next)
	case "p":
		return m.cyclePrayoga()
	case "s":
		return m.cycleSanadi()
	case "y":
		return m.copy()
	case "esc":
		return m.back()
	}

	var cmd tea.Cmd
	if m.focus == PaneForms {
		m.forms, cmd = m.forms.Update(msg)
	} else {
		m.trace, cmd = m.trace.Update(msg)
	}
	return m, cmd
}

func (m AppModel) setFocus(p Pane) (tea.Model, tea.Cmd) {
	m.focus = p
	if p == PaneRoots {
		cmd := m.roots.Focus()
		return m, cmd
	}
	m.roots.Blur()
	return m, nil
}

func (m AppModel) selectRoot(e lexicon.RootEntry) (tea.Model, tea.Cmd) {
	m.state = m.state.SelectRoot(e)
	m.roots.SetActive(e.Code)
	m.trace.Clear()
	m.status = ""
	m.focus = PaneForms
	m.roots.Blur()
	m.layout()
	cmd := m.generate()
	return m, cmd
}

func (m AppModel) clearRoot() (tea.Model, tea.Cmd) {
	m.state = m.state.ClearRoot()
	m.roots.SetActive("")
	m.forms.Clear("select a root")
	m.trace.Clear()
	m.layout()
	return m, nil
}

func (m AppModel) changeTab(t session.Tab) (tea.Model, tea.Cmd) {
	m.state = m.state.ChangeTab(t)
	m.trace.Clear()
	cmd := m.generate()
	return m, cmd
}

func (m AppModel) cyclePrayoga() (tea.Model, tea.Cmd) {
	cur := grammar.Kartari
	if p := m.state.Prayoga(); p != nil {
		cur = *p
	}
	i := slices.Index(grammar.Prayogas, cur)
	next := grammar.Prayogas[(i+1)%len(grammar.Prayogas)]
	m.state = m.state.SetPrayoga(&next)
	m.trace.Clear()
	cmd := m.generate()
	return m, cmd
}

// cycleSanadi steps through none, then each sanadi in order, then none.
func (m AppModel) cycleSanadi() (tea.Model, tea.Cmd) {
	i := -1
	if cur := m.state.Sanadi(); cur != nil {
		i = slices.Index(grammar.Sanadis, *cur)
	}
	var next *grammar.Sanadi
	if i+1 < len(grammar.Sanadis) {
		s := grammar.Sanadis[i+1]
		next = &s
	}
	m.state = m.state.SetSanadi(next)
	m.trace.Clear()
	cmd := m.generate()
	return m, cmd
}

// generate starts paradigm generation for the active root and tab.
func (m *AppModel) generate() tea.Cmd {
	root, ok := m.state.Root()
	if !ok {
		m.forms.Clear("select a root")
		return nil
	}
	m.forms.SetLoading()

	ticket := m.state.Ticket()
	ctx, gen := m.deps.Context, m.deps.Generator

	if m.state.Tab() == session.TabKrt {
		return func() tea.Msg {
			d, err := gen.GenerateDerived(ctx, root.Code)
			return derivedMsg{ticket: ticket, derived: d, err: err}
		}
	}

	filters := m.state.Filters()
	return func() tea.Msg {
		p, err := gen.GenerateFinite(ctx, root.Code, filters)
		return finiteMsg{ticket: ticket, finite: p, err: err}
	}
}

func (m AppModel) selectForm(f paradigm.Form) (tea.Model, tea.Cmd) {
	state, err := m.state.SelectForm(f)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.state = state
	m.status = ""
	m.forms.SetActive(f)
	m.trace.SetLoading(f)

	ticket := m.state.Ticket()
	ctx, res := m.deps.Context, m.deps.Resolver
	return m, func() tea.Msg {
		p, err := res.Resolve(ctx, f)
		return traceMsg{ticket: ticket, form: f, prakriya: p, err: err}
	}
}

func (m AppModel) back() (tea.Model, tea.Cmd) {
	switch {
	case m.focus == PaneTrace:
		m.state = m.state.ClearTrace()
		m.trace.Clear()
		return m.setFocus(PaneForms)
	case m.state.Phase() >= session.FormActive:
		m.state = m.state.ClearForm()
		m.forms.SetActive(paradigm.Form{})
		m.trace.Clear()
		return m, nil
	default:
		return m.setFocus(PaneRoots)
	}
}

// copy puts the selected form and its derivation, or the form under the
// cursor, on the clipboard.
func (m AppModel) copy() (tea.Model, tea.Cmd) {
	var text string
	if f, ok := m.state.Form(); ok {
		text = m.deps.Renderer.Show(f.Text)
		if t := m.trace.Text(); t != "" {
			text = t
		}
	} else if f, ok := m.forms.Current(); ok && m.focus == PaneForms {
		text = m.deps.Renderer.Show(f.Text)
	}
	if text == "" || m.deps.Clipboard == nil {
		return m, nil
	}

	if err := m.deps.Clipboard.Write(text); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.copied = true
	return m, clearCopiedAfter(2 * time.Second)
}

func (m *AppModel) hasBanner() bool {
	root, ok := m.state.Root()
	return ok && m.deps.Banner != nil && m.deps.Banner.Supports(m.deps.Renderer.ShowPlain(root.Upadesha))
}

func (m *AppModel) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	bodyH := max(m.height-2, 8) // title and status lines
	rootsW := max(m.width/3, 30)
	rightW := max(m.width-rootsW, 30)
	traceH := max(bodyH/3, 5)
	formsH := max(bodyH-traceH, 5)

	// Panes lose two rows and four columns to border and padding.
	m.roots.SetSize(rootsW-4, bodyH-2)

	formsRows := formsH - 2 - 2 // tab bar and its gap
	if m.hasBanner() {
		formsRows -= bannerRows + 1
	}
	m.forms.SetSize(rightW-4, max(formsRows, 1))
	m.trace.SetSize(rightW-4, traceH-2)
}

// View renders the model.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	bodyH := max(m.height-2, 8)
	rootsW := max(m.width/3, 30)
	rightW := max(m.width-rootsW, 30)
	traceH := max(bodyH/3, 5)
	formsH := max(bodyH-traceH, 5)

	roots := m.pane(PaneRoots, rootsW, bodyH).Render(m.roots.View())
	forms := m.pane(PaneForms, rightW, formsH).Render(m.formsContent(rightW - 4))
	trace := m.pane(PaneTrace, rightW, traceH).Render(m.trace.View())

	body := lipgloss.JoinHorizontal(lipgloss.Top, roots, lipgloss.JoinVertical(lipgloss.Left, forms, trace))
	return lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render("धातु dhatu"), body, m.renderStatus())
}

func (m AppModel) pane(p Pane, width, height int) lipgloss.Style {
	style := PaneStyle
	if m.focus == p {
		style = PaneFocusedStyle
	}
	return style.Width(width - 2).Height(height - 2).MaxHeight(height)
}

func (m AppModel) formsContent(width int) string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.hasBanner() {
		root, _ := m.state.Root()
		art := m.deps.Banner.Render(m.deps.Renderer.ShowPlain(root.Upadesha), bannerRows, width)
		b.WriteString(BannerStyle.Render(art))
		b.WriteString("\n\n")
	}

	b.WriteString(m.forms.View())
	return b.String()
}

func (m AppModel) renderTabs() string {
	active := lipgloss.NewStyle().Bold(true).Foreground(ColorSecondary).Underline(true)
	inactive := lipgloss.NewStyle().Foreground(ColorMuted)

	var tabs []string
	for _, t := range session.Tabs {
		label := "finite (tin)"
		if t == session.TabKrt {
			label = "derived (krt)"
		}
		if t == m.state.Tab() {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}

	prayoga := grammar.Kartari
	if p := m.state.Prayoga(); p != nil {
		prayoga = *p
	}
	opts := "prayoga: " + prayoga.String()
	if s := m.state.Sanadi(); s != nil {
		opts += "  sanadi: " + s.String()
	}

	return strings.Join(tabs, "  ") + "    " + StatusStyle.Render(opts)
}

func (m AppModel) renderStatus() string {
	var parts []string
	parts = append(parts, m.state.Phase().String())
	switch {
	case m.copied:
		parts = append(parts, CopiedStyle.Render("Copied!"))
	case m.status != "":
		parts = append(parts, ErrorStyle.Render(m.status))
	}
	hint := "tab: pane • t: tin/krt • p: prayoga • s: sanadi • "
	if m.deps.Clipboard != nil {
		hint += "y: copy • "
	}
	parts = append(parts, hint+"?: help")
	return StatusStyle.Render(strings.Join(parts, " │ "))
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(key, desc string) string {
		return helpKeyStyle.Render(key) + helpDescStyle.Render(desc) + "\n"
	}

	helpText := helpTitleStyle.Render("dhatu - Sanskrit verb explorer") + "\n\n"

	helpText += helpSectionStyle.Render("Global Keys") + "\n"
	helpText += row("tab", "Next pane")
	helpText += row("shift+tab", "Previous pane")
	helpText += row("/", "Filter roots")
	helpText += row("?", "Show this help")
	helpText += row("q", "Quit")

	helpText += helpSectionStyle.Render("Roots") + "\n"
	helpText += row("type", "Filter by code, root or meaning")
	helpText += row("↑/↓", "Move")
	helpText += row("enter", "Select root")
	helpText += row("esc", "Clear selected root")

	helpText += helpSectionStyle.Render("Forms") + "\n"
	helpText += row("←/→ ↑/↓", "Move")
	helpText += row("enter", "Show derivation")
	helpText += row("t", "Switch finite/derived")
	helpText += row("p", "Cycle prayoga")
	helpText += row("s", "Cycle sanadi")
	if m.deps.Clipboard != nil {
		helpText += row("y", "Copy form or derivation")
	}
	helpText += row("esc", "Clear selected form")

	helpText += "\n" + lipgloss.NewStyle().Foreground(ColorMuted).Render("Press ? or esc to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBoxStyle.Render(helpText))
}
