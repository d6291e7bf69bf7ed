package session

import (
	"testing"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bhu = lexicon.RootEntry{Code: "01.0001", Upadesha: "BU", Query: "BU", Artha: "sattAyAm"}
	edh = lexicon.RootEntry{Code: "01.0002", Upadesha: "eDa~\\", Query: "eDa~", Artha: "vfdDO"}
)

func bavati() paradigm.Form {
	pada := grammar.Parasmai
	return paradigm.Form{Text: "Bavati", Type: paradigm.TypeTin, Root: bhu.Code, Pada: &pada}
}

func traced(t *testing.T) State {
	t.Helper()
	s := State{}.SelectRoot(bhu)
	s, err := s.SelectForm(bavati())
	require.NoError(t, err)
	s, err = s.ResolveTrace(engine.Prakriya{Text: "Bavati"})
	require.NoError(t, err)
	require.Equal(t, TraceResolved, s.Phase())
	return s
}

func TestZeroState(t *testing.T) {
	var s State
	assert.Equal(t, NoRoot, s.Phase())
	assert.Equal(t, TabTin, s.Tab())
	assert.Nil(t, s.Prayoga())
	assert.Nil(t, s.Sanadi())

	_, ok := s.Root()
	assert.False(t, ok)
}

func TestLifecycle(t *testing.T) {
	s := State{}.SelectRoot(bhu)
	assert.Equal(t, RootActive, s.Phase())

	s, err := s.SelectForm(bavati())
	require.NoError(t, err)
	assert.Equal(t, FormActive, s.Phase())

	s, err = s.ResolveTrace(engine.Prakriya{Text: "Bavati"})
	require.NoError(t, err)
	assert.Equal(t, TraceResolved, s.Phase())

	p, ok := s.Trace()
	require.True(t, ok)
	assert.Equal(t, "Bavati", p.Text)
}

func TestCascades(t *testing.T) {
	cases := []struct {
		name string
		step func(State) State
		want Phase
	}{
		{"clear root", func(s State) State { return s.ClearRoot() }, NoRoot},
		{"replace root", func(s State) State { return s.SelectRoot(edh) }, RootActive},
		{"reselect root", func(s State) State { return s.SelectRoot(bhu) }, RootActive},
		{"change tab", func(s State) State { return s.ChangeTab(TabKrt) }, RootActive},
		{"set prayoga", func(s State) State {
			p := grammar.Karmani
			return s.SetPrayoga(&p)
		}, RootActive},
		{"set sanadi", func(s State) State {
			sn := grammar.San
			return s.SetSanadi(&sn)
		}, RootActive},
		{"clear form", func(s State) State { return s.ClearForm() }, RootActive},
		{"clear trace", func(s State) State { return s.ClearTrace() }, FormActive},
		{"set query", func(s State) State { return s.SetQuery("BU") }, TraceResolved},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := traced(t)
			after := tc.step(before)
			assert.Equal(t, tc.want, after.Phase())
			assert.Equal(t, TraceResolved, before.Phase(), "original value is unchanged")

			if tc.want < FormActive {
				_, ok := after.Form()
				assert.False(t, ok)
			}
			if tc.want < TraceResolved {
				_, ok := after.Trace()
				assert.False(t, ok)
			}
		})
	}
}

func TestSelectNewFormClearsTrace(t *testing.T) {
	s := traced(t)
	other := bavati()
	other.Text = "BAvati"

	s, err := s.SelectForm(other)
	require.NoError(t, err)
	assert.Equal(t, FormActive, s.Phase())

	f, _ := s.Form()
	assert.Equal(t, "BAvati", f.Text)
}

func TestRefusals(t *testing.T) {
	t.Run("form without root", func(t *testing.T) {
		s, err := State{}.SelectForm(bavati())
		assert.ErrorIs(t, err, ErrNoRoot)
		assert.Equal(t, NoRoot, s.Phase())
	})

	t.Run("form of another root", func(t *testing.T) {
		s := State{}.SelectRoot(edh)
		s, err := s.SelectForm(bavati())
		assert.ErrorIs(t, err, ErrOtherRoot)
		assert.Equal(t, RootActive, s.Phase())
	})

	t.Run("trace without form", func(t *testing.T) {
		s := State{}.SelectRoot(bhu)
		s, err := s.ResolveTrace(engine.Prakriya{Text: "Bavati"})
		assert.ErrorIs(t, err, ErrNoForm)
		assert.Equal(t, RootActive, s.Phase())
	})

	t.Run("trace for other text", func(t *testing.T) {
		s := State{}.SelectRoot(bhu)
		s, err := s.SelectForm(bavati())
		require.NoError(t, err)
		s, err = s.ResolveTrace(engine.Prakriya{Text: "BAvati"})
		assert.ErrorIs(t, err, ErrTraceMismatch)
		assert.Equal(t, FormActive, s.Phase())
	})
}

func TestTickets(t *testing.T) {
	s := State{}.SelectRoot(bhu)
	ticket := s.Ticket()
	assert.Equal(t, bhu.Code, ticket.Root)
	assert.True(t, s.Current(ticket))

	t.Run("query does not invalidate", func(t *testing.T) {
		assert.True(t, s.SetQuery("gup").Current(ticket))
	})

	t.Run("root change invalidates", func(t *testing.T) {
		assert.False(t, s.SelectRoot(edh).Current(ticket))
		assert.False(t, s.ClearRoot().Current(ticket))
	})

	t.Run("returning to the same root still invalidates", func(t *testing.T) {
		back := s.SelectRoot(edh).SelectRoot(bhu)
		assert.False(t, back.Current(ticket))
	})

	t.Run("tab and options invalidate", func(t *testing.T) {
		assert.False(t, s.ChangeTab(TabKrt).Current(ticket))
		p := grammar.Bhave
		assert.False(t, s.SetPrayoga(&p).Current(ticket))
		assert.False(t, s.SetSanadi(nil).Current(ticket))
	})

	t.Run("form selection invalidates pending traces", func(t *testing.T) {
		withForm, err := s.SelectForm(bavati())
		require.NoError(t, err)
		pending := withForm.Ticket()

		other := bavati()
		other.Text = "BAvati"
		next, err := withForm.SelectForm(other)
		require.NoError(t, err)
		assert.False(t, next.Current(pending))
	})

	t.Run("clearing the trace invalidates pending traces", func(t *testing.T) {
		withForm, err := s.SelectForm(bavati())
		require.NoError(t, err)
		pending := withForm.Ticket()

		cleared := withForm.ClearTrace()
		assert.False(t, cleared.Current(pending))
		assert.Equal(t, FormActive, cleared.Phase())
	})
}

func TestOptionsAreCopied(t *testing.T) {
	p := grammar.Karmani
	s := State{}.SetPrayoga(&p)
	p = grammar.Bhave

	require.NotNil(t, s.Prayoga())
	assert.Equal(t, grammar.Karmani, *s.Prayoga())
	assert.Equal(t, grammar.Karmani, *s.Filters().Prayoga)
	assert.Nil(t, s.Filters().Sanadi)
}

func TestParseTab(t *testing.T) {
	for _, tab := range Tabs {
		got, err := ParseTab(tab.String())
		require.NoError(t, err)
		assert.Equal(t, tab, got)
	}
	_, err := ParseTab("sup")
	assert.Error(t, err)
}
