package script

import "strings"

const virama = '्'

var devaConsonants = map[rune]rune{
	'क': 'k', 'ख': 'K', 'ग': 'g', 'घ': 'G', 'ङ': 'N',
	'च': 'c', 'छ': 'C', 'ज': 'j', 'झ': 'J', 'ञ': 'Y',
	'ट': 'w', 'ठ': 'W', 'ड': 'q', 'ढ': 'Q', 'ण': 'R',
	'त': 't', 'थ': 'T', 'द': 'd', 'ध': 'D', 'न': 'n',
	'प': 'p', 'फ': 'P', 'ब': 'b', 'भ': 'B', 'म': 'm',
	'य': 'y', 'र': 'r', 'ल': 'l', 'व': 'v',
	'श': 'S', 'ष': 'z', 'स': 's', 'ह': 'h', 'ळ': 'L',
}

var devaVowels = map[rune]rune{
	'अ': 'a', 'आ': 'A', 'इ': 'i', 'ई': 'I', 'उ': 'u', 'ऊ': 'U',
	'ऋ': 'f', 'ॠ': 'F', 'ऌ': 'x', 'ॡ': 'X',
	'ए': 'e', 'ऐ': 'E', 'ओ': 'o', 'औ': 'O',
}

var devaMatras = map[rune]rune{
	'ा': 'A', 'ि': 'i', 'ी': 'I', 'ु': 'u', 'ू': 'U',
	'ृ': 'f', 'ॄ': 'F', 'ॢ': 'x', 'ॣ': 'X',
	'े': 'e', 'ै': 'E', 'ो': 'o', 'ौ': 'O',
}

var devaMarks = map[rune]rune{
	'ं': 'M', 'ः': 'H', 'ँ': '~', 'ऽ': '\'',
	'॑': '^', '॒': '\\', '।': '.',
	'०': '0', '१': '1', '२': '2', '३': '3', '४': '4',
	'५': '5', '६': '6', '७': '7', '८': '8', '९': '9',
}

// Reverse tables, SLP1 -> Devanagari.
var (
	slpConsonants = invert(devaConsonants)
	slpVowels     = invert(devaVowels)
	slpMatras     = invert(devaMatras)
	slpMarks      = invert(devaMarks)
)

func invert(m map[rune]rune) map[rune]rune {
	out := make(map[rune]rune, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// devanagariToSLP1 reads consonants with their inherent vowel unless a
// matra or virama follows.
func devanagariToSLP1(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if c, ok := devaConsonants[r]; ok {
			b.WriteRune(c)
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == virama {
					i++
					continue
				}
				if m, ok := devaMatras[next]; ok {
					b.WriteRune(m)
					i++
					continue
				}
			}
			b.WriteRune('a')
			continue
		}
		if v, ok := devaVowels[r]; ok {
			b.WriteRune(v)
			continue
		}
		if r == '॥' {
			b.WriteString("..")
			continue
		}
		if m, ok := devaMarks[r]; ok {
			b.WriteRune(m)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// slp1ToDevanagari writes a virama after any consonant not followed by a
// vowel.
func slp1ToDevanagari(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if c, ok := slpConsonants[r]; ok {
			b.WriteRune(c)
			if i+1 < len(runes) {
				next := runes[i+1]
				if next == 'a' {
					i++
					continue
				}
				if m, ok := slpMatras[next]; ok {
					b.WriteRune(m)
					i++
					continue
				}
			}
			b.WriteRune(virama)
			continue
		}
		if v, ok := slpVowels[r]; ok {
			b.WriteRune(v)
			continue
		}
		if r == '.' && i+1 < len(runes) && runes[i+1] == '.' {
			b.WriteRune('॥')
			i++
			continue
		}
		if m, ok := slpMarks[r]; ok {
			b.WriteRune(m)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
