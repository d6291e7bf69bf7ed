package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "engine.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func bhavati() []Prakriya {
	return []Prakriya{{
		Text: "Bavati",
		History: []Step{
			{Rule: "1.3.1", Result: []string{"BU"}},
			{Rule: "3.2.123", Result: []string{"BU", "la~w"}},
			{Rule: "7.3.84", Result: []string{"Bo", "a", "ti"}},
			{Rule: "6.1.78", Result: []string{"Bav", "a", "ti"}},
		},
	}}
}

func TestStoreTinantas(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	args := TinArgs{
		Dhatu:   "01.0001",
		Lakara:  grammar.Lat,
		Prayoga: grammar.Kartari,
		Purusha: grammar.Prathama,
		Vacana:  grammar.Eka,
		Pada:    ptr(grammar.Parasmai),
	}
	require.NoError(t, s.PutTinantas(ctx, args, bhavati()))

	t.Run("exact pada", func(t *testing.T) {
		got, err := s.DeriveTinantas(ctx, args)
		require.NoError(t, err)
		assert.Equal(t, bhavati(), got)
	})

	t.Run("any pada", func(t *testing.T) {
		a := args
		a.Pada = nil
		got, err := s.DeriveTinantas(ctx, a)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Bavati", got[0].Text)
	})

	t.Run("other pada is empty", func(t *testing.T) {
		a := args
		a.Pada = ptr(grammar.Atmane)
		got, err := s.DeriveTinantas(ctx, a)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sanadi is distinct", func(t *testing.T) {
		a := args
		a.Sanadi = ptr(grammar.San)
		got, err := s.DeriveTinantas(ctx, a)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("put replaces", func(t *testing.T) {
		alt := []Prakriya{{Text: "Bavati"}, {Text: "BavAti"}}
		require.NoError(t, s.PutTinantas(ctx, args, alt))
		got, err := s.DeriveTinantas(ctx, args)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Bavati", got[0].Text)
		assert.Equal(t, "BavAti", got[1].Text)
	})
}

func TestStorePutRequiresPada(t *testing.T) {
	s := openTestStore(t)
	err := s.PutTinantas(context.Background(), TinArgs{Dhatu: "01.0001"}, bhavati())
	assert.ErrorIs(t, err, ErrPadaRequired)
}

func TestStoreKrdantas(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	args := KrtArgs{Dhatu: "01.0001", Krt: grammar.KrtKta}
	require.NoError(t, s.PutKrdantas(ctx, args, []Prakriya{{Text: "BUta"}}))

	got, err := s.DeriveKrdantas(ctx, args)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BUta", got[0].Text)

	got, err = s.DeriveKrdantas(ctx, KrtArgs{Dhatu: "01.0001", Krt: grammar.KrtTumun})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStoreImport(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dump := strings.Join([]string{
		`{"kind":"tin","tin":{"dhatu":"01.0001","lakara":"lat","prayoga":"kartari","purusha":"prathama","vacana":"eka","pada":"parasmai"},"prakriyas":[{"text":"Bavati","history":[]}]}`,
		``,
		`{"kind":"krt","krt":{"dhatu":"01.0001","krt":"kta"},"prakriyas":[{"text":"BUta","history":[]}]}`,
		`not json`,
		`{"kind":"tin","tin":{"dhatu":"01.0001","lakara":"lat","prayoga":"kartari","purusha":"prathama","vacana":"eka"},"prakriyas":[]}`,
		`{"kind":"krt","krt":{"dhatu":"01.0001","krt":"nosuch"},"prakriyas":[]}`,
	}, "\n")

	stats, err := s.Import(ctx, strings.NewReader(dump))
	require.NoError(t, err)
	assert.Equal(t, ImportStats{Tinantas: 1, Krdantas: 1, Skipped: 3}, stats)

	got, err := s.DeriveKrdantas(ctx, KrtArgs{Dhatu: "01.0001", Krt: grammar.KrtKta})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BUta", got[0].Text)
}
