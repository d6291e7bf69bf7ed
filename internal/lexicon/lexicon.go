// Package lexicon holds the dhatupatha: the list of verbal roots with their
// citation forms and meanings.
package lexicon

import (
	"strings"

	"github.com/f3rmion/dhatu/internal/script"
)

// headerCode is the first column of the header row.
const headerCode = "code"

// RootEntry is one verbal root from the dhatupatha.
type RootEntry struct {
	// Code is the stable identifier passed to the derivation engine.
	Code string `json:"code"`
	// Upadesha is the citation form in SLP1, accents included.
	Upadesha string `json:"upadesha"`
	// Query is Upadesha with accent marks removed, used for matching.
	Query string `json:"query"`
	// Artha is the free-text meaning.
	Artha string `json:"artha"`
}

// Parse reads a tab-separated dhatupatha (code, upadesha, artha; extra
// columns ignored). Rows without a code and the header row are skipped, as
// are rows repeating a code already seen. Parse never fails: malformed input
// just yields fewer entries.
func Parse(raw string) []RootEntry {
	var entries []RootEntry
	seen := make(map[string]bool)

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSuffix(line, "\r")
		cols := strings.Split(line, "\t")

		code := cols[0]
		if code == "" || code == headerCode || seen[code] {
			continue
		}
		seen[code] = true

		upadesha := column(cols, 1)
		entries = append(entries, RootEntry{
			Code:     code,
			Upadesha: upadesha,
			Query:    script.StripSvaras(upadesha),
			Artha:    column(cols, 2),
		})
	}

	return entries
}

func column(cols []string, i int) string {
	if i < len(cols) {
		return cols[i]
	}
	return ""
}

// Filter returns the entries matching query, in their original order. An
// empty query returns entries unchanged.
//
// The query is read both as Devanagari and as Harvard-Kyoto and converted to
// SLP1, so users get the same results whichever way they type. An entry
// matches when its code, accentless citation form or meaning contains either
// candidate.
func Filter(entries []RootEntry, query string, conv script.Converter) []RootEntry {
	if query == "" {
		return entries
	}

	deva := conv.Convert(query, script.Devanagari, script.SLP1)
	hk := conv.Convert(query, script.HK, script.SLP1)

	out := make([]RootEntry, 0)
	for _, e := range entries {
		if e.matches(deva) || e.matches(hk) {
			out = append(out, e)
		}
	}
	return out
}

func (e RootEntry) matches(s string) bool {
	return strings.Contains(e.Code, s) ||
		strings.Contains(e.Query, s) ||
		strings.Contains(e.Artha, s)
}

// Index owns the loaded entries for the life of the process.
type Index struct {
	entries []RootEntry
	byCode  map[string]int
	conv    script.Converter
}

// New creates an index over entries.
func New(entries []RootEntry, conv script.Converter) *Index {
	idx := &Index{
		entries: entries,
		byCode:  make(map[string]int, len(entries)),
		conv:    conv,
	}
	for i, e := range entries {
		idx.byCode[e.Code] = i
	}
	return idx
}

// Entries returns all entries in lexicon order.
func (idx *Index) Entries() []RootEntry {
	return idx.entries
}

// Len returns the number of entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Filter applies Filter to the whole lexicon.
func (idx *Index) Filter(query string) []RootEntry {
	return Filter(idx.entries, query, idx.conv)
}

// Lookup returns the entry with the given code.
func (idx *Index) Lookup(code string) (RootEntry, bool) {
	i, ok := idx.byCode[code]
	if !ok {
		return RootEntry{}, false
	}
	return idx.entries[i], true
}
