package anki

import (
	"path/filepath"
	"testing"

	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(s string) string { return s }

func TestNoteFor(t *testing.T) {
	root := lexicon.RootEntry{Code: "01.0001", Upadesha: "BU^", Artha: "sattAyAm"}
	pada := grammar.Parasmai

	n := NoteFor(root, paradigm.Form{
		Text: "Bavati", Type: paradigm.TypeTin, Root: root.Code,
		Lakara: grammar.Lat, Prayoga: grammar.Kartari, Pada: &pada,
	}, identity, "1.3.1 BU")

	assert.Equal(t, "Bavati", n.Form)
	assert.Equal(t, "BU (sattAyAm)", n.Root)
	assert.Equal(t, "lat parasmai prathama eka kartari", n.Grammar)
	assert.Equal(t, "1.3.1 BU", n.Trace)
	assert.Equal(t, []string{"dhatu", "root::01.0001", "tin", "lakara::lat", "prayoga::kartari"}, n.Tags)

	k := NoteFor(root, paradigm.Form{Text: "BUta", Type: paradigm.TypeKrt, Root: root.Code, Krt: grammar.KrtKta}, identity, "")
	assert.Equal(t, "krt kta", k.Grammar)
	assert.Contains(t, k.Tags, "krt::kta")
}

func TestExportReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "BU.apkg")
	notes := []FormNote{
		{Form: "Bavati", Root: "BU", Grammar: "lat parasmai prathama eka kartari", Tags: []string{"dhatu", "tin"}},
		{Form: "BUta", Root: "BU", Grammar: "krt kta", Trace: "3.2.102 BU + kta"},
	}

	require.NoError(t, Export(path, "dhatu::BU", notes))

	pkg, err := Open(path)
	require.NoError(t, err)
	defer pkg.Close()

	require.Len(t, pkg.Notes, 2)
	require.Len(t, pkg.Cards, 2)

	var names []string
	for _, d := range pkg.Decks {
		names = append(names, d.Name)
	}
	assert.ElementsMatch(t, []string{"Default", "dhatu::BU"}, names)

	require.Len(t, pkg.Models, 1)
	for _, m := range pkg.Models {
		require.Len(t, m.Fields, len(FormFields))
		assert.Equal(t, "Form", m.Fields[0].Name)
		require.Len(t, m.Templates, 1)
	}

	first := pkg.Notes[0]
	assert.Equal(t, "Bavati", pkg.FieldValue(first, "Form"))
	assert.Equal(t, "lat parasmai prathama eka kartari", pkg.FieldValue(first, "grammar"))
	assert.Equal(t, "", pkg.FieldValue(first, "Trace"))
	assert.Equal(t, "", pkg.FieldValue(first, "Missing"))
	assert.Equal(t, []string{"dhatu", "tin"}, first.Tags)
	assert.Equal(t, "Bavati", first.SortFld)
	assert.Equal(t, notes[0].guid(0), first.GUID)

	second := pkg.Notes[1]
	assert.Equal(t, "3.2.102 BU + kta", pkg.FieldValue(second, "Trace"))
	assert.Empty(t, second.Tags)

	deckID := pkg.Cards[0].DeckID
	require.Contains(t, pkg.Decks, deckID)
	assert.Equal(t, "dhatu::BU", pkg.Decks[deckID].Name)

	assert.Contains(t, pkg.Summary(), "Notes: 2")
}

func TestGUIDStable(t *testing.T) {
	a := FormNote{Form: "Bavati", Root: "BU", Grammar: "lat"}
	b := a
	b.Trace = "changed"
	assert.Equal(t, a.guid(0), b.guid(0))

	b.Grammar = "lot"
	assert.NotEqual(t, a.guid(0), b.guid(0))

	assert.NotEqual(t, a.guid(0), a.guid(1))
}

func TestRepeatedFormsGetDistinctGUIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kf.apkg")
	kfta := FormNote{Form: "kfta", Root: "kf", Grammar: "krt kta"}
	notes := []FormNote{kfta, {Form: "kftavat", Root: "kf", Grammar: "krt ktavatu"}, kfta}

	require.NoError(t, Export(path, "dhatu::kf", notes))

	pkg, err := Open(path)
	require.NoError(t, err)
	defer pkg.Close()

	require.Len(t, pkg.Notes, 3)
	guids := make(map[string]bool)
	for _, n := range pkg.Notes {
		guids[n.GUID] = true
	}
	assert.Len(t, guids, 3)
	assert.True(t, guids[kfta.guid(0)], "the first occurrence keeps its plain GUID")
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.apkg"))
	assert.Error(t, err)
}
