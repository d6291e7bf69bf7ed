// Package paradigm builds inflection tables for a root by driving the
// derivation engine across the grammatical category space, and resolves a
// chosen form back to a single derivation.
package paradigm

import (
	"strings"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
)

// FormType distinguishes finite forms from derived nominal forms.
type FormType string

const (
	TypeTin FormType = "tin"
	TypeKrt FormType = "krt"
)

// Form is one generated surface form together with the exact argument tuple
// that produced it.
type Form struct {
	Text string   `json:"text"`
	Type FormType `json:"type"`
	Root string   `json:"root"`

	Lakara  grammar.Lakara  `json:"lakara"`
	Prayoga grammar.Prayoga `json:"prayoga"`
	Purusha grammar.Purusha `json:"purusha"`
	Vacana  grammar.Vacana  `json:"vacana"`
	Pada    *grammar.Pada   `json:"pada,omitempty"`
	Sanadi  *grammar.Sanadi `json:"sanadi,omitempty"`

	Krt grammar.Krt `json:"krt"`
}

// TinArgs returns the engine arguments of a finite form.
func (f Form) TinArgs() engine.TinArgs {
	return engine.TinArgs{
		Dhatu:   f.Root,
		Lakara:  f.Lakara,
		Prayoga: f.Prayoga,
		Purusha: f.Purusha,
		Vacana:  f.Vacana,
		Pada:    f.Pada,
		Sanadi:  f.Sanadi,
	}
}

// KrtArgs returns the engine arguments of a derived form.
func (f Form) KrtArgs() engine.KrtArgs {
	return engine.KrtArgs{Dhatu: f.Root, Krt: f.Krt}
}

// Same reports whether f and g came from the same request and have the same
// text.
func (f Form) Same(g Form) bool {
	if f.Text != g.Text || f.Type != g.Type || f.Root != g.Root {
		return false
	}
	if f.Type == TypeKrt {
		return f.Krt == g.Krt
	}
	return f.Lakara == g.Lakara &&
		f.Prayoga == g.Prayoga &&
		f.Purusha == g.Purusha &&
		f.Vacana == g.Vacana &&
		equalPtr(f.Pada, g.Pada) &&
		equalPtr(f.Sanadi, g.Sanadi)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// CellKey addresses one cell of a finite table.
type CellKey struct {
	Purusha grammar.Purusha
	Vacana  grammar.Vacana
}

// Table holds the finite forms of one (lakara, pada) pair. Empty cells are
// absent from Cells.
type Table struct {
	Lakara grammar.Lakara
	Pada   grammar.Pada
	Cells  map[CellKey][]Form
}

// Cell returns the forms at (purusha, vacana).
func (t Table) Cell(purusha grammar.Purusha, vacana grammar.Vacana) ([]Form, bool) {
	forms, ok := t.Cells[CellKey{purusha, vacana}]
	return forms, ok
}

// Finite is the finite paradigm of a root for one prayoga and sanadi.
// Tables are ordered by lakara, then pada.
type Finite struct {
	Root    string
	Prayoga grammar.Prayoga
	Sanadi  *grammar.Sanadi
	Tables  []Table
}

// Table returns the table for (lakara, pada).
func (p *Finite) Table(lakara grammar.Lakara, pada grammar.Pada) (Table, bool) {
	for _, t := range p.Tables {
		if t.Lakara == lakara && t.Pada == pada {
			return t, true
		}
	}
	return Table{}, false
}

// Forms flattens the paradigm in table, purusha, vacana order.
func (p *Finite) Forms() []Form {
	var out []Form
	for _, t := range p.Tables {
		for _, pu := range grammar.Purushas {
			for _, v := range grammar.Vacanas {
				forms, _ := t.Cell(pu, v)
				out = append(out, forms...)
			}
		}
	}
	return out
}

// KrtGroup holds the forms of one krt suffix.
type KrtGroup struct {
	Krt   grammar.Krt
	Forms []Form
}

// Derived is the derived-forms view of a root: one group per common krt, in
// order, possibly empty.
type Derived struct {
	Root   string
	Groups []KrtGroup
}

// Forms flattens the groups in order.
func (d *Derived) Forms() []Form {
	var out []Form
	for _, g := range d.Groups {
		out = append(out, g.Forms...)
	}
	return out
}

// Label describes the grammatical tuple of f, e.g. "lat parasmai prathama
// eka kartari" or "krt kta".
func (f Form) Label() string {
	if f.Type == TypeKrt {
		return "krt " + f.Krt.String()
	}
	parts := []string{f.Lakara.String()}
	if f.Pada != nil {
		parts = append(parts, f.Pada.String())
	}
	parts = append(parts, f.Purusha.String(), f.Vacana.String(), f.Prayoga.String())
	if f.Sanadi != nil {
		parts = append(parts, f.Sanadi.String())
	}
	return strings.Join(parts, " ")
}
