// Package enginetest provides a scripted engine for tests.
package enginetest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
)

// TinKey identifies a finite derivation request. Zero pointers in TinArgs
// become the HasPada/HasSanadi flags.
type TinKey struct {
	Dhatu     string
	Lakara    grammar.Lakara
	Prayoga   grammar.Prayoga
	Purusha   grammar.Purusha
	Vacana    grammar.Vacana
	Pada      grammar.Pada
	HasPada   bool
	Sanadi    grammar.Sanadi
	HasSanadi bool
}

// KeyOf builds the key for args.
func KeyOf(args engine.TinArgs) TinKey {
	k := TinKey{
		Dhatu:   args.Dhatu,
		Lakara:  args.Lakara,
		Prayoga: args.Prayoga,
		Purusha: args.Purusha,
		Vacana:  args.Vacana,
	}
	if args.Pada != nil {
		k.Pada, k.HasPada = *args.Pada, true
	}
	if args.Sanadi != nil {
		k.Sanadi, k.HasSanadi = *args.Sanadi, true
	}
	return k
}

// Engine answers from scripted tables. Unscripted requests return no
// derivations. It is safe for concurrent use.
type Engine struct {
	mu   sync.RWMutex
	tin  map[TinKey][]engine.Prakriya
	krt  map[engine.KrtArgs][]engine.Prakriya
	errs map[string]error

	TinCalls atomic.Int64
	KrtCalls atomic.Int64
}

// New creates an empty scripted engine.
func New() *Engine {
	return &Engine{
		tin:  make(map[TinKey][]engine.Prakriya),
		krt:  make(map[engine.KrtArgs][]engine.Prakriya),
		errs: make(map[string]error),
	}
}

// Tin scripts the answer for args.
func (e *Engine) Tin(args engine.TinArgs, ps ...engine.Prakriya) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tin[KeyOf(args)] = ps
	return e
}

// Krt scripts the answer for args.
func (e *Engine) Krt(args engine.KrtArgs, ps ...engine.Prakriya) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.krt[args] = ps
	return e
}

// Fail makes every request for dhatu return err.
func (e *Engine) Fail(dhatu string, err error) *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.errs[dhatu] = err
	return e
}

// DeriveTinantas implements engine.Engine.
func (e *Engine) DeriveTinantas(ctx context.Context, args engine.TinArgs) ([]engine.Prakriya, error) {
	e.TinCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.errs[args.Dhatu]; err != nil {
		return nil, err
	}
	return clone(e.tin[KeyOf(args)]), nil
}

// DeriveKrdantas implements engine.Engine.
func (e *Engine) DeriveKrdantas(ctx context.Context, args engine.KrtArgs) ([]engine.Prakriya, error) {
	e.KrtCalls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.errs[args.Dhatu]; err != nil {
		return nil, err
	}
	return clone(e.krt[args]), nil
}

// P is shorthand for a derivation with a one-step history.
func P(text string) engine.Prakriya {
	return engine.Prakriya{
		Text:    text,
		History: []engine.Step{{Rule: "8.4.68", Result: []string{text}}},
	}
}

func clone(ps []engine.Prakriya) []engine.Prakriya {
	if ps == nil {
		return nil
	}
	out := make([]engine.Prakriya, len(ps))
	copy(out, ps)
	return out
}

var _ engine.Engine = (*Engine)(nil)
