package script

import "strings"

// letter maps one SLP1 symbol to its Harvard-Kyoto and IAST spellings.
type letter struct {
	slp  rune
	hk   string
	iast string
}

var letters = []letter{
	{'a', "a", "a"}, {'A', "A", "ā"},
	{'i', "i", "i"}, {'I', "I", "ī"},
	{'u', "u", "u"}, {'U', "U", "ū"},
	{'f', "R", "ṛ"}, {'F', "RR", "ṝ"},
	{'x', "lR", "ḷ"}, {'X', "lRR", "ḹ"},
	{'e', "e", "e"}, {'E', "ai", "ai"},
	{'o', "o", "o"}, {'O', "au", "au"},
	{'M', "M", "ṃ"}, {'H', "H", "ḥ"}, {'~', "~", "m̐"},

	{'k', "k", "k"}, {'K', "kh", "kh"}, {'g', "g", "g"}, {'G', "gh", "gh"}, {'N', "G", "ṅ"},
	{'c', "c", "c"}, {'C', "ch", "ch"}, {'j', "j", "j"}, {'J', "jh", "jh"}, {'Y', "J", "ñ"},
	{'w', "T", "ṭ"}, {'W', "Th", "ṭh"}, {'q', "D", "ḍ"}, {'Q', "Dh", "ḍh"}, {'R', "N", "ṇ"},
	{'t', "t", "t"}, {'T', "th", "th"}, {'d', "d", "d"}, {'D', "dh", "dh"}, {'n', "n", "n"},
	{'p', "p", "p"}, {'P', "ph", "ph"}, {'b', "b", "b"}, {'B', "bh", "bh"}, {'m', "m", "m"},
	{'y', "y", "y"}, {'r', "r", "r"}, {'l', "l", "l"}, {'v', "v", "v"},
	{'S', "z", "ś"}, {'z', "S", "ṣ"}, {'s', "s", "s"}, {'h', "h", "h"},
	{'L', "L", "ḻ"},
}

// romanScheme decodes by greedy longest match and encodes symbol by symbol.
type romanScheme struct {
	decode map[string]string
	encode map[rune]string
	maxLen int
}

var romanSchemes = map[Scheme]*romanScheme{
	HK:   newRomanScheme(func(l letter) string { return l.hk }),
	IAST: newRomanScheme(func(l letter) string { return l.iast }, "ṁ", "M"),
}

func newRomanScheme(spelling func(letter) string, aliases ...string) *romanScheme {
	rs := &romanScheme{
		decode: make(map[string]string),
		encode: make(map[rune]string),
	}
	add := func(token, slp string) {
		rs.decode[token] = slp
		if n := len([]rune(token)); n > rs.maxLen {
			rs.maxLen = n
		}
	}
	for _, l := range letters {
		token := nfc(spelling(l))
		rs.encode[l.slp] = token
		add(token, string(l.slp))
	}
	for i := 0; i+1 < len(aliases); i += 2 {
		add(nfc(aliases[i]), aliases[i+1])
	}
	return rs
}

func (rs *romanScheme) toSLP1(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i := 0; i < len(runes); {
		n := rs.maxLen
		if rest := len(runes) - i; n > rest {
			n = rest
		}
		matched := false
		for ; n > 0; n-- {
			if slp, ok := rs.decode[string(runes[i:i+n])]; ok {
				b.WriteString(slp)
				i += n
				matched = true
				break
			}
		}
		if !matched {
			b.WriteRune(runes[i])
			i++
		}
	}
	return b.String()
}

func (rs *romanScheme) fromSLP1(s string) string {
	var b strings.Builder
	for _, r := range s {
		if token, ok := rs.encode[r]; ok {
			b.WriteString(token)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
