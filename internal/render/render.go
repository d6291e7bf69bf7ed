// Package render formats roots, paradigms and derivations as aligned text for
// the command line.
package render

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/template"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/script"
	"github.com/mattn/go-runewidth"
)

// Template names accepted by SetTemplate.
const (
	TemplateRoots   = "roots"
	TemplateFinite  = "finite"
	TemplateDerived = "derived"
	TemplateTrace   = "trace"
)

// Renderer writes display text in a chosen script. Data is always SLP1
// internally and converted at the last moment.
type Renderer struct {
	conv      script.Converter
	scheme    script.Scheme
	templates map[string]*template.Template
}

// New creates a renderer that displays text in scheme.
func New(conv script.Converter, scheme script.Scheme) *Renderer {
	r := &Renderer{
		conv:      conv,
		scheme:    scheme,
		templates: make(map[string]*template.Template),
	}
	for name, text := range defaultTemplates {
		r.templates[name] = template.Must(r.newTemplate(name).Parse(text))
	}
	return r
}

// SetTemplate replaces one of the named templates.
func (r *Renderer) SetTemplate(name, text string) error {
	if _, ok := defaultTemplates[name]; !ok {
		return fmt.Errorf("unknown template %q", name)
	}
	t, err := r.newTemplate(name).Parse(text)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	r.templates[name] = t
	return nil
}

// SetTemplates applies SetTemplate to every entry of overrides, keyed by
// template name.
func (r *Renderer) SetTemplates(overrides map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(overrides)) {
		if err := r.SetTemplate(name, overrides[name]); err != nil {
			return fmt.Errorf("template %s: %w", name, err)
		}
	}
	return nil
}

func (r *Renderer) newTemplate(name string) *template.Template {
	return template.New(name).Funcs(template.FuncMap{
		"show":  r.Show,
		"plain": r.ShowPlain,
		"pad":   Pad,
		"join":  strings.Join,
	})
}

// Show converts SLP1 text to the display script, keeping accent marks.
func (r *Renderer) Show(slp1 string) string {
	return r.conv.Convert(slp1, script.SLP1, r.scheme)
}

// ShowPlain converts SLP1 text to the display script without accent marks.
func (r *Renderer) ShowPlain(slp1 string) string {
	return r.Show(script.StripSvaras(slp1))
}

// ShowList joins the texts of forms with ", " in the display script.
func (r *Renderer) ShowList(forms []paradigm.Form) string {
	texts := make([]string, len(forms))
	for i, f := range forms {
		texts[i] = f.Text
	}
	return r.Show(strings.Join(texts, ", "))
}

// Pad right-pads s with spaces to width terminal cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

type rootRow struct {
	Code, Upadesha, Artha string
}

type rootsData struct {
	Rows  []rootRow
	Count int
}

// Roots writes the root list.
func (r *Renderer) Roots(w io.Writer, entries []lexicon.RootEntry) error {
	rows := make([]rootRow, len(entries))
	codeW, upW := 0, 0
	for i, e := range entries {
		rows[i] = rootRow{Code: e.Code, Upadesha: r.ShowPlain(e.Upadesha), Artha: e.Artha}
		codeW = max(codeW, runewidth.StringWidth(rows[i].Code))
		upW = max(upW, runewidth.StringWidth(rows[i].Upadesha))
	}
	for i := range rows {
		rows[i].Code = Pad(rows[i].Code, codeW)
		rows[i].Upadesha = Pad(rows[i].Upadesha, upW)
	}
	return r.execute(w, TemplateRoots, rootsData{Rows: rows, Count: len(rows)})
}

type tableData struct {
	Lakara grammar.Lakara
	Pada   grammar.Pada
	Rows   [][]string
}

type finiteData struct {
	Root    string
	Prayoga grammar.Prayoga
	Sanadi  *grammar.Sanadi
	Tables  []tableData
}

// Finite writes a finite paradigm as one purusha × vacana grid per table.
func (r *Renderer) Finite(w io.Writer, p *paradigm.Finite) error {
	data := finiteData{Root: p.Root, Prayoga: p.Prayoga, Sanadi: p.Sanadi}

	for _, t := range p.Tables {
		grid := [][]string{{""}}
		for _, v := range grammar.Vacanas {
			grid[0] = append(grid[0], v.String())
		}
		for _, pu := range grammar.Purushas {
			row := []string{pu.String()}
			for _, v := range grammar.Vacanas {
				forms, _ := t.Cell(pu, v)
				cell := r.ShowList(forms)
				if cell == "" {
					cell = "-"
				}
				row = append(row, cell)
			}
			grid = append(grid, row)
		}
		data.Tables = append(data.Tables, tableData{Lakara: t.Lakara, Pada: t.Pada, Rows: align(grid)})
	}

	return r.execute(w, TemplateFinite, data)
}

type groupData struct {
	Krt   string
	Forms string
}

// Derived writes the derived forms, one line per krt.
func (r *Renderer) Derived(w io.Writer, d *paradigm.Derived) error {
	width := 0
	for _, g := range d.Groups {
		width = max(width, runewidth.StringWidth(g.Krt.String()))
	}

	groups := make([]groupData, len(d.Groups))
	for i, g := range d.Groups {
		forms := r.ShowList(g.Forms)
		if forms == "" {
			forms = "-"
		}
		groups[i] = groupData{Krt: Pad(g.Krt.String(), width), Forms: forms}
	}

	return r.execute(w, TemplateDerived, struct {
		Root   string
		Groups []groupData
	}{d.Root, groups})
}

type stepData struct {
	Rule   string
	Result string
}

// Trace writes a derivation, one rule application per line.
func (r *Renderer) Trace(w io.Writer, p engine.Prakriya) error {
	width := 0
	for _, s := range p.History {
		width = max(width, runewidth.StringWidth(s.Rule))
	}

	steps := make([]stepData, len(p.History))
	for i, s := range p.History {
		steps[i] = stepData{Rule: Pad(s.Rule, width), Result: r.Show(strings.Join(s.Result, " + "))}
	}

	return r.execute(w, TemplateTrace, struct {
		Text  string
		Steps []stepData
	}{p.Text, steps})
}

// TraceString renders p to a string.
func (r *Renderer) TraceString(p engine.Prakriya) (string, error) {
	var buf bytes.Buffer
	if err := r.Trace(&buf, p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) execute(w io.Writer, name string, data any) error {
	if err := r.templates[name].Execute(w, data); err != nil {
		return fmt.Errorf("executing %s template: %w", name, err)
	}
	return nil
}

// align pads every column but the last to its widest cell.
func align(grid [][]string) [][]string {
	var widths []int
	for _, row := range grid {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	out := make([][]string, len(grid))
	for r, row := range grid {
		out[r] = make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				out[r][i] = cell
			} else {
				out[r][i] = Pad(cell, widths[i])
			}
		}
	}
	return out
}

var defaultTemplates = map[string]string{
	TemplateRoots: `{{ range .Rows }}{{ .Code }}  {{ .Upadesha }}  {{ .Artha }}
{{ end }}{{ .Count }} roots
`,

	TemplateFinite: `{{ .Root }} · {{ .Prayoga }}{{ if .Sanadi }} · {{ .Sanadi }}{{ end }}
{{ range .Tables }}
{{ .Lakara }} ({{ .Pada }})
{{ range .Rows }}  {{ join . "  " }}
{{ end }}{{ else }}
no forms
{{ end }}`,

	TemplateDerived: `{{ .Root }}
{{ range .Groups }}  {{ .Krt }}  {{ .Forms }}
{{ end }}`,

	TemplateTrace: `{{ show .Text }}
{{ range .Steps }}  {{ .Rule }}  {{ .Result }}
{{ end }}`,
}
