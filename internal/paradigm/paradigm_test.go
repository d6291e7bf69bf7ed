package paradigm

import (
	"context"
	"errors"
	"testing"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/engine/enginetest"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const bhu = "01.0001"

func ptr[T any](v T) *T { return &v }

func tin(l grammar.Lakara, pada grammar.Pada, pu grammar.Purusha, v grammar.Vacana) engine.TinArgs {
	return engine.TinArgs{
		Dhatu:   bhu,
		Lakara:  l,
		Prayoga: grammar.Kartari,
		Purusha: pu,
		Vacana:  v,
		Pada:    ptr(pada),
	}
}

func scripted() *enginetest.Engine {
	P := enginetest.P
	return enginetest.New().
		Tin(tin(grammar.Lat, grammar.Parasmai, grammar.Prathama, grammar.Eka),
			P("Bavati"), P("Bavati"), P("BAvati")).
		Tin(tin(grammar.Lat, grammar.Parasmai, grammar.Prathama, grammar.Bahu), P("Bavanti")).
		Tin(tin(grammar.Lat, grammar.Parasmai, grammar.Uttama, grammar.Eka), P("BavAmi")).
		Tin(tin(grammar.Lit, grammar.Parasmai, grammar.Prathama, grammar.Eka), P("baBUva")).
		Tin(tin(grammar.Lrn, grammar.Atmane, grammar.Madhyama, grammar.Dvi), P("aBavizyeTAm")).
		Krt(engine.KrtArgs{Dhatu: bhu, Krt: grammar.KrtKta}, P("BUta")).
		Krt(engine.KrtArgs{Dhatu: bhu, Krt: grammar.KrtTumun}, P("Bavitum"), P("Bavitum")).
		Krt(engine.KrtArgs{Dhatu: bhu, Krt: grammar.KrtSatf}, P("Bavat"))
}

func TestGenerateFinite(t *testing.T) {
	eng := scripted()
	g := NewGenerator(eng)

	p, err := g.GenerateFinite(context.Background(), bhu, Filters{})
	require.NoError(t, err)

	assert.Equal(t, bhu, p.Root)
	assert.Equal(t, grammar.Kartari, p.Prayoga)
	assert.Nil(t, p.Sanadi)
	assert.EqualValues(t, len(grammar.Lakaras)*len(grammar.Padas)*9, eng.TinCalls.Load())

	t.Run("omits empty tables and lakaras", func(t *testing.T) {
		require.Len(t, p.Tables, 3)
		var lakaras []grammar.Lakara
		for _, tbl := range p.Tables {
			if len(lakaras) == 0 || lakaras[len(lakaras)-1] != tbl.Lakara {
				lakaras = append(lakaras, tbl.Lakara)
			}
		}
		assert.Equal(t, []grammar.Lakara{grammar.Lat, grammar.Lit, grammar.Lrn}, lakaras)

		_, ok := p.Table(grammar.Lat, grammar.Atmane)
		assert.False(t, ok)
		_, ok = p.Table(grammar.Lrn, grammar.Atmane)
		assert.True(t, ok)
		_, ok = p.Table(grammar.Lrn, grammar.Parasmai)
		assert.False(t, ok, "padas are omitted independently")
	})

	t.Run("omits empty cells", func(t *testing.T) {
		lat, ok := p.Table(grammar.Lat, grammar.Parasmai)
		require.True(t, ok)
		assert.Len(t, lat.Cells, 3)

		_, ok = lat.Cell(grammar.Madhyama, grammar.Eka)
		assert.False(t, ok)
	})

	t.Run("deduplicates by text keeping engine order", func(t *testing.T) {
		lat, _ := p.Table(grammar.Lat, grammar.Parasmai)
		forms, ok := lat.Cell(grammar.Prathama, grammar.Eka)
		require.True(t, ok)
		require.Len(t, forms, 2)
		assert.Equal(t, "Bavati", forms[0].Text)
		assert.Equal(t, "BAvati", forms[1].Text)
	})

	t.Run("forms carry their tuple", func(t *testing.T) {
		lrn, _ := p.Table(grammar.Lrn, grammar.Atmane)
		forms, _ := lrn.Cell(grammar.Madhyama, grammar.Dvi)
		require.Len(t, forms, 1)

		f := forms[0]
		assert.Equal(t, TypeTin, f.Type)
		assert.Equal(t, bhu, f.Root)
		assert.Equal(t, grammar.Lrn, f.Lakara)
		assert.Equal(t, grammar.Kartari, f.Prayoga)
		assert.Equal(t, grammar.Madhyama, f.Purusha)
		assert.Equal(t, grammar.Dvi, f.Vacana)
		require.NotNil(t, f.Pada)
		assert.Equal(t, grammar.Atmane, *f.Pada)
		assert.Nil(t, f.Sanadi)
	})

	t.Run("flattened order", func(t *testing.T) {
		var texts []string
		for _, f := range p.Forms() {
			texts = append(texts, f.Text)
		}
		assert.Equal(t, []string{"Bavati", "BAvati", "Bavanti", "BavAmi", "baBUva", "aBavizyeTAm"}, texts)
	})
}

func TestGenerateFiniteWorkerInvariance(t *testing.T) {
	ctx := context.Background()
	want, err := NewGenerator(scripted(), WithWorkers(1)).GenerateFinite(ctx, bhu, Filters{})
	require.NoError(t, err)

	for _, n := range []int{0, 2, 4, 16, 64} {
		got, err := NewGenerator(scripted(), WithWorkers(n)).GenerateFinite(ctx, bhu, Filters{})
		require.NoError(t, err)
		assert.Equal(t, want, got, "workers=%d", n)
	}
}

func TestGenerateFiniteFilters(t *testing.T) {
	args := tin(grammar.Lat, grammar.Parasmai, grammar.Prathama, grammar.Eka)
	args.Prayoga = grammar.Karmani
	args.Sanadi = ptr(grammar.Nic)
	eng := enginetest.New().Tin(args, enginetest.P("BAvyate"))

	p, err := NewGenerator(eng).GenerateFinite(context.Background(), bhu, Filters{
		Prayoga: ptr(grammar.Karmani),
		Sanadi:  ptr(grammar.Nic),
	})
	require.NoError(t, err)

	assert.Equal(t, grammar.Karmani, p.Prayoga)
	require.NotNil(t, p.Sanadi)
	assert.Equal(t, grammar.Nic, *p.Sanadi)

	forms := p.Forms()
	require.Len(t, forms, 1)
	assert.Equal(t, "BAvyate", forms[0].Text)
	require.NotNil(t, forms[0].Sanadi)
	assert.Equal(t, grammar.Nic, *forms[0].Sanadi)
}

func TestGenerateFiniteNothing(t *testing.T) {
	p, err := NewGenerator(enginetest.New()).GenerateFinite(context.Background(), "99.9999", Filters{})
	require.NoError(t, err)
	assert.Empty(t, p.Tables)
	assert.Empty(t, p.Forms())
}

func TestGenerateErrors(t *testing.T) {
	boom := errors.New("engine down")
	eng := scripted().Fail(bhu, boom)
	g := NewGenerator(eng, WithWorkers(2))

	_, err := g.GenerateFinite(context.Background(), bhu, Filters{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "deriving 01.0001")

	_, err = g.GenerateDerived(context.Background(), bhu)
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = NewGenerator(scripted()).GenerateFinite(ctx, bhu, Filters{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateDerived(t *testing.T) {
	eng := scripted()
	d, err := NewGenerator(eng).GenerateDerived(context.Background(), bhu)
	require.NoError(t, err)

	require.Len(t, d.Groups, len(grammar.CommonKrts))
	for i, krt := range grammar.CommonKrts {
		assert.Equal(t, krt, d.Groups[i].Krt)
	}
	assert.EqualValues(t, len(grammar.CommonKrts), eng.KrtCalls.Load())

	byKrt := make(map[grammar.Krt][]Form)
	for _, g := range d.Groups {
		byKrt[g.Krt] = g.Forms
	}
	assert.Empty(t, byKrt[grammar.KrtTavya])
	assert.Len(t, byKrt[grammar.KrtKta], 1)
	assert.Len(t, byKrt[grammar.KrtTumun], 2, "derived forms are not deduplicated")
	assert.Equal(t, TypeKrt, byKrt[grammar.KrtSatf][0].Type)
	assert.Equal(t, grammar.KrtSatf, byKrt[grammar.KrtSatf][0].Krt)
}

func TestResolveRoundTrip(t *testing.T) {
	eng := scripted()
	ctx := context.Background()
	g := NewGenerator(eng)
	r := NewResolver(eng)

	finite, err := g.GenerateFinite(ctx, bhu, Filters{})
	require.NoError(t, err)
	derived, err := g.GenerateDerived(ctx, bhu)
	require.NoError(t, err)

	forms := append(finite.Forms(), derived.Forms()...)
	require.NotEmpty(t, forms)
	for _, f := range forms {
		p, err := r.Resolve(ctx, f)
		require.NoError(t, err, f.Text)
		assert.Equal(t, f.Text, p.Text)
		assert.NotEmpty(t, p.History)
	}
}

func TestResolveFirstMatch(t *testing.T) {
	args := tin(grammar.Lat, grammar.Parasmai, grammar.Prathama, grammar.Eka)
	first := engine.Prakriya{Text: "Bavati", History: []engine.Step{{Rule: "first"}}}
	second := engine.Prakriya{Text: "Bavati", History: []engine.Step{{Rule: "second"}}}
	eng := enginetest.New().Tin(args, enginetest.P("BAvati"), first, second)

	f := Form{
		Text: "Bavati", Type: TypeTin, Root: bhu,
		Lakara: args.Lakara, Prayoga: args.Prayoga, Purusha: args.Purusha,
		Vacana: args.Vacana, Pada: args.Pada,
	}
	p, err := NewResolver(eng).Resolve(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, first, p)
}

func TestResolveErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no match", func(t *testing.T) {
		f := Form{Text: "Bavatu", Type: TypeKrt, Root: bhu, Krt: grammar.KrtKta}
		_, err := NewResolver(scripted()).Resolve(ctx, f)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("engine failure is not a miss", func(t *testing.T) {
		boom := errors.New("engine down")
		f := Form{Text: "BUta", Type: TypeKrt, Root: bhu, Krt: grammar.KrtKta}
		_, err := NewResolver(scripted().Fail(bhu, boom)).Resolve(ctx, f)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewResolver(scripted()).Resolve(ctx, Form{Text: "x"})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
	})
}

func TestFormSame(t *testing.T) {
	a := Form{Text: "Bavati", Type: TypeTin, Root: bhu, Pada: ptr(grammar.Parasmai)}
	b := a
	b.Pada = ptr(grammar.Parasmai)
	assert.True(t, a.Same(b))

	b.Pada = ptr(grammar.Atmane)
	assert.False(t, a.Same(b))

	b.Pada = nil
	assert.False(t, a.Same(b))

	k1 := Form{Text: "BUta", Type: TypeKrt, Root: bhu, Krt: grammar.KrtKta}
	k2 := k1
	k2.Krt = grammar.KrtKtavatu
	assert.True(t, k1.Same(k1))
	assert.False(t, k1.Same(k2))
}

func TestFormLabel(t *testing.T) {
	f := Form{
		Type: TypeTin, Lakara: grammar.Lit, Prayoga: grammar.Karmani,
		Purusha: grammar.Uttama, Vacana: grammar.Bahu,
		Pada: ptr(grammar.Atmane), Sanadi: ptr(grammar.Yan),
	}
	assert.Equal(t, "lit atmane uttama bahu karmani yaN", f.Label())

	f.Pada, f.Sanadi = nil, nil
	assert.Equal(t, "lit uttama bahu karmani", f.Label())

	assert.Equal(t, "krt tumun", Form{Type: TypeKrt, Krt: grammar.KrtTumun}.Label())
}
