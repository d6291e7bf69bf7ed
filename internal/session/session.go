// Package session holds the explorer's selection state: the active root, tab,
// form and trace, plus the user's view options.
//
// State is an immutable value. Every transition returns a new State and
// enforces the lifecycle root → form → trace: clearing or replacing an
// ancestor clears its descendants.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
)

// Refusals returned by SelectForm and ResolveTrace. The state is unchanged.
var (
	ErrNoRoot        = errors.New("no root selected")
	ErrOtherRoot     = errors.New("form belongs to another root")
	ErrNoForm        = errors.New("no form selected")
	ErrTraceMismatch = errors.New("trace does not match the selected form")
)

// Tab is the active view.
type Tab int

const (
	TabTin Tab = iota
	TabKrt
)

// Tabs lists the tabs in display order.
var Tabs = []Tab{TabTin, TabKrt}

func (t Tab) String() string {
	switch t {
	case TabTin:
		return "tin"
	case TabKrt:
		return "krt"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// ParseTab parses "tin" or "krt".
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(s) {
	case "tin":
		return TabTin, nil
	case "krt":
		return TabKrt, nil
	}
	return 0, fmt.Errorf("unknown tab %q", s)
}

// Phase summarises how far the selection lifecycle has progressed.
type Phase int

const (
	NoRoot Phase = iota
	RootActive
	FormActive
	TraceResolved
)

func (p Phase) String() string {
	switch p {
	case NoRoot:
		return "no-root"
	case RootActive:
		return "root-active"
	case FormActive:
		return "form-active"
	case TraceResolved:
		return "trace-resolved"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Ticket identifies the context an asynchronous computation was started in.
type Ticket struct {
	Root string
	Tab  Tab
	Gen  uint64
}

// State is the selection state. The zero value has no root and the tin tab
// active.
type State struct {
	root  *lexicon.RootEntry
	tab   Tab
	form  *paradigm.Form
	trace *engine.Prakriya

	prayoga *grammar.Prayoga
	sanadi  *grammar.Sanadi
	query   string

	gen uint64
}

// Root returns the active root.
func (s State) Root() (lexicon.RootEntry, bool) {
	if s.root == nil {
		return lexicon.RootEntry{}, false
	}
	return *s.root, true
}

// Tab returns the active tab.
func (s State) Tab() Tab { return s.tab }

// Form returns the active form.
func (s State) Form() (paradigm.Form, bool) {
	if s.form == nil {
		return paradigm.Form{}, false
	}
	return *s.form, true
}

// Trace returns the resolved trace.
func (s State) Trace() (engine.Prakriya, bool) {
	if s.trace == nil {
		return engine.Prakriya{}, false
	}
	return *s.trace, true
}

// Query returns the root filter query.
func (s State) Query() string { return s.query }

// Prayoga returns the chosen prayoga, or nil for the default.
func (s State) Prayoga() *grammar.Prayoga { return clonePtr(s.prayoga) }

// Sanadi returns the chosen sanadi, or nil for none.
func (s State) Sanadi() *grammar.Sanadi { return clonePtr(s.sanadi) }

// Filters returns the generator filters for the finite view.
func (s State) Filters() paradigm.Filters {
	return paradigm.Filters{Prayoga: s.Prayoga(), Sanadi: s.Sanadi()}
}

// Phase reports the lifecycle phase.
func (s State) Phase() Phase {
	switch {
	case s.root == nil:
		return NoRoot
	case s.form == nil:
		return RootActive
	case s.trace == nil:
		return FormActive
	default:
		return TraceResolved
	}
}

// Ticket captures the current root, tab and generation.
func (s State) Ticket() Ticket {
	t := Ticket{Tab: s.tab, Gen: s.gen}
	if s.root != nil {
		t.Root = s.root.Code
	}
	return t
}

// Current reports whether results computed under t may still be applied.
func (s State) Current(t Ticket) bool {
	return t == s.Ticket()
}

// SelectRoot makes e the active root and clears any form and trace.
func (s State) SelectRoot(e lexicon.RootEntry) State {
	s.root = &e
	return s.invalidate()
}

// ClearRoot clears the root, form and trace.
func (s State) ClearRoot() State {
	s.root = nil
	return s.invalidate()
}

// ChangeTab switches the view and clears any form and trace.
func (s State) ChangeTab(t Tab) State {
	s.tab = t
	return s.invalidate()
}

// SetPrayoga sets the prayoga option; nil restores the default. The form and
// trace are cleared.
func (s State) SetPrayoga(p *grammar.Prayoga) State {
	s.prayoga = clonePtr(p)
	return s.invalidate()
}

// SetSanadi sets the sanadi option; nil means none. The form and trace are
// cleared.
func (s State) SetSanadi(sn *grammar.Sanadi) State {
	s.sanadi = clonePtr(sn)
	return s.invalidate()
}

// SetQuery sets the root filter query.
func (s State) SetQuery(q string) State {
	s.query = q
	return s
}

// SelectForm makes f the active form and clears any trace. It is refused
// without an active root or for a form of another root.
func (s State) SelectForm(f paradigm.Form) (State, error) {
	if s.root == nil {
		return s, ErrNoRoot
	}
	if f.Root != s.root.Code {
		return s, fmt.Errorf("%w: %s", ErrOtherRoot, f.Root)
	}
	s.form = &f
	s.trace = nil
	s.gen++
	return s, nil
}

// ClearForm clears the form and trace.
func (s State) ClearForm() State {
	s.form = nil
	s.trace = nil
	s.gen++
	return s
}

// ResolveTrace attaches p as the trace of the active form. It is refused
// unless p derives the form's text.
func (s State) ResolveTrace(p engine.Prakriya) (State, error) {
	if s.form == nil {
		return s, ErrNoForm
	}
	if p.Text != s.form.Text {
		return s, fmt.Errorf("%w: %s != %s", ErrTraceMismatch, p.Text, s.form.Text)
	}
	s.trace = &p
	return s, nil
}

// ClearTrace clears the trace only. A resolution still in flight for the
// form is invalidated with it.
func (s State) ClearTrace() State {
	s.trace = nil
	s.gen++
	return s
}

func (s State) invalidate() State {
	s.form = nil
	s.trace = nil
	s.gen++
	return s
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
