package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	collectionFile = "collection.anki2"
	modelID        = int64(1700000000001)
	defaultDeckID  = int64(1)
)

// FormFields are the fields of the exported note type, in order.
var FormFields = []string{"Form", "Root", "Grammar", "Trace"}

// FormNote is one exported form.
type FormNote struct {
	Form    string
	Root    string
	Grammar string
	Trace   string
	Tags    []string
}

func (n FormNote) fields() []string {
	return []string{n.Form, n.Root, n.Grammar, n.Trace}
}

// guid is stable across exports so re-importing updates notes in place.
// seq counts earlier notes in the deck with the same root, grammar and form;
// it keeps repeated forms in one krt group apart.
func (n FormNote) guid(seq int) string {
	key := n.Root + fieldSep + n.Grammar + fieldSep + n.Form
	if seq > 0 {
		key += fieldSep + strconv.Itoa(seq)
	}
	sum := sha1.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:10]
}

// checksum is the first 8 hex digits of the SHA-1 of the sort field.
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	v, _ := strconv.ParseInt(hex.EncodeToString(sum[:])[:8], 16, 64)
	return v
}

const collectionSchema = `
CREATE TABLE col (
	id integer primary key, crt integer not null, mod integer not null,
	scm integer not null, ver integer not null, dty integer not null,
	usn integer not null, ls integer not null, conf text not null,
	models text not null, decks text not null, dconf text not null, tags text not null
);
CREATE TABLE notes (
	id integer primary key, guid text not null, mid integer not null,
	mod integer not null, usn integer not null, tags text not null,
	flds text not null, sfld text not null, csum integer not null,
	flags integer not null, data text not null
);
CREATE TABLE cards (
	id integer primary key, nid integer not null, did integer not null,
	ord integer not null, mod integer not null, usn integer not null,
	type integer not null, queue integer not null, due integer not null,
	ivl integer not null, factor integer not null, reps integer not null,
	lapses integer not null, left integer not null, odue integer not null,
	odid integer not null, flags integer not null, data text not null
);
CREATE TABLE revlog (
	id integer primary key, cid integer not null, usn integer not null,
	ease integer not null, ivl integer not null, lastIvl integer not null,
	factor integer not null, time integer not null, type integer not null
);
CREATE TABLE graves (usn integer not null, oid integer not null, type integer not null);
`

const cardCSS = `.card { font-family: "Noto Sans Devanagari", sans-serif; font-size: 28px; text-align: center; }
.grammar { font-size: 18px; color: #555; }
.trace { font-family: monospace; font-size: 14px; text-align: left; white-space: pre; }`

func formModel(deckID int64, now int64) map[string]any {
	flds := make([]Field, len(FormFields))
	for i, name := range FormFields {
		flds[i] = Field{Name: name, Ord: i, Font: "Arial", Size: 20}
	}
	return map[string]any{
		"id":    modelID,
		"name":  "dhatu form",
		"type":  0,
		"mod":   now,
		"usn":   -1,
		"sortf": 0,
		"did":   deckID,
		"flds":  flds,
		"tmpls": []Template{{
			Name:  "Recall",
			Ord:   0,
			Front: `{{Root}}<div class="grammar">{{Grammar}}</div>`,
			Back:  `{{FrontSide}}<hr id="answer">{{Form}}<div class="trace">{{Trace}}</div>`,
		}},
		"css":       cardCSS,
		"latexPre":  "",
		"latexPost": "",
		"req":       []any{[]any{0, "any", []int{1, 2}}},
		"tags":      []string{},
		"vers":      []any{},
	}
}

// Export writes notes as a new deck named deckName to path.
func Export(path, deckName string, notes []FormNote) error {
	tempDir, err := os.MkdirTemp("", "dhatu-export-*")
	if err != nil {
		return fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	if err := writeCollection(filepath.Join(tempDir, collectionFile), deckName, notes); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(tempDir, "media"), []byte("{}"), 0o644); err != nil {
		return fmt.Errorf("writing media index: %w", err)
	}

	return zipDir(tempDir, path)
}

func writeCollection(dbPath, deckName string, notes []FormNote) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(collectionSchema); err != nil {
		return fmt.Errorf("creating collection schema: %w", err)
	}

	now := time.Now()
	deckID := now.UnixMilli()

	models, err := json.Marshal(map[string]any{
		strconv.FormatInt(modelID, 10): formModel(deckID, now.Unix()),
	})
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	decks, err := json.Marshal(map[string]Deck{
		strconv.FormatInt(defaultDeckID, 10): {ID: defaultDeckID, Name: "Default"},
		strconv.FormatInt(deckID, 10):        {ID: deckID, Name: deckName, Desc: "Generated by dhatu"},
	})
	if err != nil {
		return fmt.Errorf("marshaling decks: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO col (id, crt, mod, scm, ver, dty, usn, ls, conf, models, decks, dconf, tags)
		VALUES (1, ?, ?, ?, 11, 0, 0, 0, '{}', ?, ?, '{}', '{}')
	`, now.Unix(), now.UnixMilli(), now.UnixMilli(), string(models), string(decks)); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}

	base := now.UnixMilli()
	seen := make(map[string]int)
	for i, n := range notes {
		id := base + int64(i)
		flds := n.fields()
		first := n.guid(0)
		guid := n.guid(seen[first])
		seen[first]++
		if _, err := tx.Exec(`
			INSERT INTO notes (id, guid, mid, mod, usn, tags, flds, sfld, csum, flags, data)
			VALUES (?, ?, ?, ?, -1, ?, ?, ?, ?, 0, '')
		`, id, guid, modelID, now.Unix(), " "+strings.Join(n.Tags, " ")+" ",
			strings.Join(flds, fieldSep), flds[0], checksum(flds[0])); err != nil {
			return fmt.Errorf("writing note %s: %w", n.Form, err)
		}
		if _, err := tx.Exec(`
			INSERT INTO cards (id, nid, did, ord, mod, usn, type, queue, due, ivl, factor, reps, lapses, left, odue, odid, flags, data)
			VALUES (?, ?, ?, 0, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')
		`, id, id, deckID, now.Unix(), i+1); err != nil {
			return fmt.Errorf("writing card %s: %w", n.Form, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing collection: %w", err)
	}
	return nil
}

func zipDir(dir, outputPath string) error {
	outFile, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer outFile.Close()

	zw := zip.NewWriter(outFile)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(rel)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("creating zip: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing zip: %w", err)
	}
	return nil
}
