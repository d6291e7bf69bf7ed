// Package grammar declares the closed grammatical category sets passed to the
// derivation engine.
//
// Every axis is a small integer enumeration with its full value list fixed at
// build time. Callers iterate the exported value slices (Lakaras, Padas, ...)
// with ordinary indexed loops; nothing here interprets what a value means.
package grammar

import (
	"fmt"
	"strings"
)

// Lakara is a finite tense/mood class.
type Lakara int

const (
	Lat Lakara = iota
	Lit
	Lut
	Lrt
	Let
	Lot
	Lan
	VidhiLin
	AshirLin
	Lun
	Lrn
)

var lakaraNames = []string{
	"lat", "lit", "lut", "lrt", "let", "lot", "lan", "vidhilin", "ashirlin", "lun", "lrn",
}

// Lakaras lists every lakara in canonical order.
var Lakaras = []Lakara{Lat, Lit, Lut, Lrt, Let, Lot, Lan, VidhiLin, AshirLin, Lun, Lrn}

// Prayoga is the semantic voice.
type Prayoga int

const (
	Kartari Prayoga = iota
	Karmani
	Bhave
)

var prayogaNames = []string{"kartari", "karmani", "bhave"}

// Prayogas lists every prayoga.
var Prayogas = []Prayoga{Kartari, Karmani, Bhave}

// Purusha is grammatical person.
type Purusha int

const (
	Prathama Purusha = iota
	Madhyama
	Uttama
)

var purushaNames = []string{"prathama", "madhyama", "uttama"}

// Purushas lists every purusha.
var Purushas = []Purusha{Prathama, Madhyama, Uttama}

// Vacana is grammatical number.
type Vacana int

const (
	Eka Vacana = iota
	Dvi
	Bahu
)

var vacanaNames = []string{"eka", "dvi", "bahu"}

// Vacanas lists every vacana.
var Vacanas = []Vacana{Eka, Dvi, Bahu}

// Pada is the morphological voice that conditions the ending set.
type Pada int

const (
	Parasmai Pada = iota
	Atmane
)

var padaNames = []string{"parasmai", "atmane"}

// Padas lists every pada.
var Padas = []Pada{Parasmai, Atmane}

// Sanadi is an optional derivational modifier applied to the root before
// inflection.
type Sanadi int

const (
	San Sanadi = iota
	Yan
	YanLuk
	Nic
)

var sanadiNames = []string{"san", "yaN", "yaNluk", "Ric"}

// Sanadis lists every sanadi.
var Sanadis = []Sanadi{San, Yan, YanLuk, Nic}

// Krt is a derivational suffix class producing nominal forms. Names are the
// SLP1 spellings of the suffixes and are case-sensitive.
type Krt int

const (
	KrtA Krt = iota
	KrtAc
	KrtAR
	KrtAp
	KrtKa
	KrtGaY
	KrtRvul
	KrtTfc
	KrtLyuw
	KrtLyap
	KrtRyat
	KrtYat
	KrtKyap
	KrtKal
	KrtKvip
	KrtKtin
	KrtRamul
	KrtYuc
	KrtU
	KrtRini
	KrtTavyat
	KrtSatf
	KrtSAnac
	KrtKta
	KrtKtavatu
	KrtKvasu
	KrtKAnac
	KrtTavya
	KrtAnIyar
	KrtTumun
	KrtKtvA
)

var krtNames = []string{
	"a", "ac", "aR", "ap", "ka", "GaY", "Rvul", "tfc", "lyuw", "lyap", "Ryat", "yat",
	"kyap", "Kal", "kvip", "ktin", "Ramul", "yuc", "u", "Rini", "tavyat",
	"Satf", "SAnac", "kta", "ktavatu", "kvasu", "kAnac", "tavya", "anIyar", "tumun", "ktvA",
}

// Krts lists every supported krt suffix.
var Krts = func() []Krt {
	out := make([]Krt, len(krtNames))
	for i := range krtNames {
		out[i] = Krt(i)
	}
	return out
}()

// CommonKrts is the curated set shown in the derived-forms view: potential
// participles, present participles in both padas, past participles, perfect
// participles, then the infinitive and absolutive.
var CommonKrts = []Krt{
	KrtTavya,
	KrtAnIyar,

	KrtSatf,
	KrtSAnac,

	KrtKta,
	KrtKtavatu,

	KrtKvasu,
	KrtKAnac,

	KrtTumun,
	KrtKtvA,
}

func (l Lakara) String() string  { return nameOf(lakaraNames, l) }
func (p Prayoga) String() string { return nameOf(prayogaNames, p) }
func (p Purusha) String() string { return nameOf(purushaNames, p) }
func (v Vacana) String() string  { return nameOf(vacanaNames, v) }
func (p Pada) String() string    { return nameOf(padaNames, p) }
func (s Sanadi) String() string  { return nameOf(sanadiNames, s) }
func (k Krt) String() string     { return nameOf(krtNames, k) }

// ParseLakara returns the lakara named s.
func ParseLakara(s string) (Lakara, error) { return parse[Lakara]("lakara", lakaraNames, s, true) }

// ParsePrayoga returns the prayoga named s.
func ParsePrayoga(s string) (Prayoga, error) {
	return parse[Prayoga]("prayoga", prayogaNames, s, true)
}

// ParsePurusha returns the purusha named s.
func ParsePurusha(s string) (Purusha, error) {
	return parse[Purusha]("purusha", purushaNames, s, true)
}

// ParseVacana returns the vacana named s.
func ParseVacana(s string) (Vacana, error) { return parse[Vacana]("vacana", vacanaNames, s, true) }

// ParsePada returns the pada named s.
func ParsePada(s string) (Pada, error) { return parse[Pada]("pada", padaNames, s, true) }

// ParseSanadi returns the sanadi named s. Matching is exact first, then
// case-insensitive.
func ParseSanadi(s string) (Sanadi, error) { return parse[Sanadi]("sanadi", sanadiNames, s, true) }

// ParseKrt returns the krt suffix named s. SLP1 is case-sensitive, so only
// exact matches are accepted.
func ParseKrt(s string) (Krt, error) { return parse[Krt]("krt", krtNames, s, false) }

func (l Lakara) MarshalText() ([]byte, error)  { return []byte(l.String()), nil }
func (p Prayoga) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (p Purusha) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (v Vacana) MarshalText() ([]byte, error)  { return []byte(v.String()), nil }
func (p Pada) MarshalText() ([]byte, error)    { return []byte(p.String()), nil }
func (s Sanadi) MarshalText() ([]byte, error)  { return []byte(s.String()), nil }
func (k Krt) MarshalText() ([]byte, error)     { return []byte(k.String()), nil }

func (l *Lakara) UnmarshalText(b []byte) (err error)  { *l, err = ParseLakara(string(b)); return }
func (p *Prayoga) UnmarshalText(b []byte) (err error) { *p, err = ParsePrayoga(string(b)); return }
func (p *Purusha) UnmarshalText(b []byte) (err error) { *p, err = ParsePurusha(string(b)); return }
func (v *Vacana) UnmarshalText(b []byte) (err error)  { *v, err = ParseVacana(string(b)); return }
func (p *Pada) UnmarshalText(b []byte) (err error)    { *p, err = ParsePada(string(b)); return }
func (s *Sanadi) UnmarshalText(b []byte) (err error)  { *s, err = ParseSanadi(string(b)); return }
func (k *Krt) UnmarshalText(b []byte) (err error)     { *k, err = ParseKrt(string(b)); return }

func nameOf[T ~int](names []string, v T) string {
	if v < 0 || int(v) >= len(names) {
		return fmt.Sprintf("%T(%d)", v, int(v))
	}
	return names[v]
}

func parse[T ~int](kind string, names []string, s string, fold bool) (T, error) {
	for i, n := range names {
		if n == s {
			return T(i), nil
		}
	}
	if fold {
		for i, n := range names {
			if strings.EqualFold(n, s) {
				return T(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, s)
}
