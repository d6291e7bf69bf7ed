package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToSLP1(t *testing.T) {
	tests := []struct {
		name string
		text string
		from Scheme
		want string
	}{
		{"devanagari long vowel matra", "भू", Devanagari, "BU"},
		{"devanagari inherent vowels", "भवति", Devanagari, "Bavati"},
		{"devanagari conjunct", "क्त्वा", Devanagari, "ktvA"},
		{"devanagari anusvara and final virama", "संस्कृतम्", Devanagari, "saMskftam"},
		{"devanagari independent vowel", "इच्छति", Devanagari, "icCati"},
		{"devanagari accents", "भ॑वति", Devanagari, "Ba^vati"},
		{"hk aspirate", "bhU", HK, "BU"},
		{"hk vocalic r", "saMskRtam", HK, "saMskftam"},
		{"hk sibilants", "zaSa", HK, "Saza"},
		{"hk diphthong", "aizvarya", HK, "ESvarya"},
		{"iast", "bhū", IAST, "BU"},
		{"iast retroflex", "kṛṣṇa", IAST, "kfzRa"},
		{"iast decomposed input", "bhu\u0304", IAST, "BU"},
		{"iast alias anusvara", "saṁskṛtam", IAST, "saMskftam"},
		{"latin passes through devanagari decoder", "to become", Devanagari, "to become"},
		{"latin passes through hk decoder", "to become", HK, "to become"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.text, tt.from, SLP1))
		})
	}
}

func TestConvertFromSLP1(t *testing.T) {
	tests := []struct {
		name string
		text string
		to   Scheme
		want string
	}{
		{"devanagari", "gopAya", Devanagari, "गोपाय"},
		{"devanagari final consonant", "Bavet", Devanagari, "भवेत्"},
		{"devanagari conjunct", "ktvA", Devanagari, "क्त्वा"},
		{"devanagari visarga", "BavataH", Devanagari, "भवतः"},
		{"devanagari accents", "Ba^vati", Devanagari, "भ॑वति"},
		{"devanagari double danda", "..", Devanagari, "॥"},
		{"iast", "BU", IAST, "bhū"},
		{"iast retroflex", "kfzRa", IAST, "kṛṣṇa"},
		{"hk", "BU", HK, "bhU"},
		{"hk sibilants", "Saza", HK, "zaSa"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Convert(tt.text, SLP1, tt.to))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	words := []string{"Bavati", "saMskftam", "gopAyati", "jagrAha", "ktvA", "kfzRaH", "jYAnam"}
	for _, scheme := range []Scheme{HK, IAST, Devanagari} {
		for _, w := range words {
			out := Convert(w, SLP1, scheme)
			assert.Equal(t, w, Convert(out, scheme, SLP1), "%s via %s (%q)", w, scheme, out)
		}
	}
}

func TestSameSchemeIsIdentity(t *testing.T) {
	assert.Equal(t, "BU", Convert("BU", SLP1, SLP1))
	assert.Equal(t, "भू", Convert("भू", Devanagari, Devanagari))
}

func TestTransliteratorImplementsConverter(t *testing.T) {
	var c Converter = Transliterator{}
	assert.Equal(t, "BU", c.Convert("भू", Devanagari, SLP1))
}

func TestStripSvaras(t *testing.T) {
	assert.Equal(t, "BU", StripSvaras("BU^"))
	assert.Equal(t, "eDa", StripSvaras("e\\Da^"))
	assert.Equal(t, "gupa", StripSvaras("gupa"))
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("Devanagari")
	require.NoError(t, err)
	assert.Equal(t, Devanagari, s)
	assert.Equal(t, "iast", IAST.String())

	_, err = ParseScheme("itrans")
	assert.Error(t, err)
}
