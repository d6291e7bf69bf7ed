// Package engine defines the contract with the morphological derivation
// engine and provides the implementations the CLI can be pointed at.
//
// The engine is a black box: given a root code and a full set of grammatical
// categories it returns zero or more candidate derivations. Zero candidates
// means the combination is ungrammatical; several candidates are alternate
// derivations whose surface text may or may not coincide.
package engine

import (
	"context"
	"errors"

	"github.com/f3rmion/dhatu/internal/grammar"
)

// ErrUnknownKind is returned for an unsupported engine kind.
var ErrUnknownKind = errors.New("unknown engine kind")

// Step is one rule application in a derivation.
type Step struct {
	// Rule is the identifier of the rule applied, e.g. "3.2.123".
	Rule string `json:"rule"`
	// Result is the sequence of terms after the rule applied.
	Result []string `json:"result"`
}

// Prakriya is a complete derivation of one surface form.
type Prakriya struct {
	Text    string `json:"text"`
	History []Step `json:"history"`
}

// TinArgs selects a finite verb form. Pada and Sanadi are optional.
type TinArgs struct {
	Dhatu   string          `json:"dhatu"`
	Lakara  grammar.Lakara  `json:"lakara"`
	Prayoga grammar.Prayoga `json:"prayoga"`
	Purusha grammar.Purusha `json:"purusha"`
	Vacana  grammar.Vacana  `json:"vacana"`
	Pada    *grammar.Pada   `json:"pada"`
	Sanadi  *grammar.Sanadi `json:"sanadi"`
}

// KrtArgs selects a derived nominal form.
type KrtArgs struct {
	Dhatu string      `json:"dhatu"`
	Krt   grammar.Krt `json:"krt"`
}

// Engine derives surface forms. Both calls are pure functions of their
// arguments.
type Engine interface {
	DeriveTinantas(ctx context.Context, args TinArgs) ([]Prakriya, error)
	DeriveKrdantas(ctx context.Context, args KrtArgs) ([]Prakriya, error)
}

// Kinds lists the engine kinds the CLI can open.
var Kinds = []string{"sqlite", "http"}
