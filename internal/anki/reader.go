// Package anki exports paradigms as Anki .apkg decks and reads decks back.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// fieldSep separates note fields in the flds column.
const fieldSep = "\x1f"

// Package is an opened .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Decks   map[int64]*Deck
	Notes   []*Note
	Cards   []*Card
}

// Model is an Anki note type.
type Model struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Fields    []Field    `json:"flds"`
	Templates []Template `json:"tmpls"`
	CSS       string     `json:"css"`
	Type      int        `json:"type"`
}

// Field is a field of a note type.
type Field struct {
	Name   string `json:"name"`
	Ord    int    `json:"ord"`
	Sticky bool   `json:"sticky"`
	RTL    bool   `json:"rtl"`
	Font   string `json:"font"`
	Size   int    `json:"size"`
}

// Template is a card template of a note type.
type Template struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Front string `json:"qfmt"`
	Back  string `json:"afmt"`
}

// Deck is an Anki deck.
type Deck struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Note is one note with its fields split out.
type Note struct {
	ID      int64
	GUID    string
	ModelID int64
	Tags    []string
	Fields  []string
	SortFld string
}

// Card is one card generated from a note.
type Card struct {
	ID     int64
	NoteID int64
	DeckID int64
	Ord    int
}

// Open reads an .apkg file. Close releases its temporary files.
func Open(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
		Decks:  make(map[int64]*Deck),
	}

	tempDir, err := os.MkdirTemp("", "dhatu-apkg-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath := filepath.Join(tempDir, collectionFile)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		dbPath = filepath.Join(tempDir, "collection.anki21")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pkg.db = db

	for _, load := range []func() error{pkg.loadCollection, pkg.loadNotes, pkg.loadCards} {
		if err := load(); err != nil {
			pkg.Close()
			return nil, err
		}
	}

	return pkg, nil
}

func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)
		if !strings.HasPrefix(fpath, filepath.Clean(p.tempDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}

	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func (p *Package) loadCollection() error {
	var models, decks string
	if err := p.db.QueryRow("SELECT models, decks FROM col").Scan(&models, &decks); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var modelsMap map[string]*Model
	if err := json.Unmarshal([]byte(models), &modelsMap); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, m := range modelsMap {
		p.Models[m.ID] = m
	}

	var decksMap map[string]*Deck
	if err := json.Unmarshal([]byte(decks), &decksMap); err != nil {
		return fmt.Errorf("parsing decks: %w", err)
	}
	for _, d := range decksMap {
		p.Decks[d.ID] = d
	}

	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query(`SELECT id, guid, mid, tags, flds, sfld FROM notes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n Note
		var tags, flds string
		if err := rows.Scan(&n.ID, &n.GUID, &n.ModelID, &tags, &flds, &n.SortFld); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Tags = strings.Fields(tags)
		n.Fields = strings.Split(flds, fieldSep)
		p.Notes = append(p.Notes, &n)
	}

	return rows.Err()
}

func (p *Package) loadCards() error {
	rows, err := p.db.Query(`SELECT id, nid, did, ord FROM cards ORDER BY id`)
	if err != nil {
		return fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c Card
		if err := rows.Scan(&c.ID, &c.NoteID, &c.DeckID, &c.Ord); err != nil {
			return fmt.Errorf("scanning card: %w", err)
		}
		p.Cards = append(p.Cards, &c)
	}

	return rows.Err()
}

// FieldValue returns the named field of n, or "" if its model has no such
// field.
func (p *Package) FieldValue(n *Note, name string) string {
	m := p.Models[n.ModelID]
	if m == nil {
		return ""
	}
	for _, f := range m.Fields {
		if strings.EqualFold(f.Name, name) && f.Ord < len(n.Fields) {
			return n.Fields[f.Ord]
		}
	}
	return ""
}

// Close removes the extracted files.
func (p *Package) Close() error {
	if p.db != nil {
		p.db.Close()
	}
	if p.tempDir != "" {
		return os.RemoveAll(p.tempDir)
	}
	return nil
}

// Summary describes the package contents.
func (p *Package) Summary() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Anki package: %s\n", p.path)
	fmt.Fprintf(&sb, "  Decks: %d\n", len(p.Decks))
	for _, d := range p.Decks {
		fmt.Fprintf(&sb, "    - %s\n", d.Name)
	}
	fmt.Fprintf(&sb, "  Notes: %d\n", len(p.Notes))
	fmt.Fprintf(&sb, "  Cards: %d\n", len(p.Cards))

	return sb.String()
}
