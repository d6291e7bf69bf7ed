// Package script converts Sanskrit text between the SLP1 encoding used
// internally and the user-facing schemes (Harvard-Kyoto, IAST, Devanagari).
package script

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scheme identifies a transliteration scheme.
type Scheme int

const (
	SLP1 Scheme = iota
	HK
	IAST
	Devanagari
)

var schemeNames = []string{"slp1", "hk", "iast", "devanagari"}

func (s Scheme) String() string {
	if s < 0 || int(s) >= len(schemeNames) {
		return fmt.Sprintf("Scheme(%d)", int(s))
	}
	return schemeNames[s]
}

// ParseScheme returns the scheme named s (case-insensitive).
func ParseScheme(s string) (Scheme, error) {
	for i, n := range schemeNames {
		if strings.EqualFold(n, s) {
			return Scheme(i), nil
		}
	}
	return 0, fmt.Errorf("unknown script %q", s)
}

// Converter converts text from one scheme to another.
type Converter interface {
	Convert(text string, from, to Scheme) string
}

// Transliterator is the table-driven Converter.
type Transliterator struct{}

// Convert implements Converter.
func (Transliterator) Convert(text string, from, to Scheme) string {
	return Convert(text, from, to)
}

// Convert transliterates text. Input is NFC-normalised first so that
// decomposed IAST diacritics match the tables. Characters a scheme has no
// mapping for pass through unchanged.
func Convert(text string, from, to Scheme) string {
	text = nfc(text)
	if from == to {
		return text
	}

	var slp string
	switch from {
	case SLP1:
		slp = text
	case Devanagari:
		slp = devanagariToSLP1(text)
	default:
		slp = romanSchemes[from].toSLP1(text)
	}

	switch to {
	case SLP1:
		return slp
	case Devanagari:
		return slp1ToDevanagari(slp)
	default:
		return romanSchemes[to].fromSLP1(slp)
	}
}

func nfc(s string) string {
	return norm.NFC.String(s)
}

// svaraReplacer drops the SLP1 accent marks.
var svaraReplacer = strings.NewReplacer(
	"^", "", // udatta
	"\\", "", // anudatta
)

// StripSvaras removes SLP1 accent marks from s.
func StripSvaras(s string) string {
	return svaraReplacer.Replace(s)
}
