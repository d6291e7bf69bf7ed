package paradigm

import (
	"context"
	"errors"
	"fmt"

	"github.com/f3rmion/dhatu/internal/engine"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the engine no longer yields a derivation
// whose text matches the selected form.
var ErrNotFound = errors.New("derivation unavailable")

// Resolver turns a selected form back into one concrete derivation.
type Resolver struct {
	eng    engine.Engine
	logger *zap.Logger
}

// NewResolver creates a resolver. Only WithLogger applies.
func NewResolver(eng engine.Engine, opts ...Option) *Resolver {
	o := newOptions(opts)
	return &Resolver{eng: eng, logger: o.logger}
}

// Resolve re-derives form with exactly the arguments that produced it and
// returns the first derivation with the same text.
func (r *Resolver) Resolve(ctx context.Context, form Form) (engine.Prakriya, error) {
	var (
		ps  []engine.Prakriya
		err error
	)
	switch form.Type {
	case TypeTin:
		ps, err = r.eng.DeriveTinantas(ctx, form.TinArgs())
	case TypeKrt:
		ps, err = r.eng.DeriveKrdantas(ctx, form.KrtArgs())
	default:
		return engine.Prakriya{}, fmt.Errorf("resolving %s: unknown form type %q", form.Text, form.Type)
	}
	if err != nil {
		return engine.Prakriya{}, fmt.Errorf("resolving %s: %w", form.Text, err)
	}

	for _, p := range ps {
		if p.Text == form.Text {
			return p, nil
		}
	}

	r.logger.Debug("no matching derivation",
		zap.String("root", form.Root),
		zap.String("text", form.Text),
		zap.Int("candidates", len(ps)))

	return engine.Prakriya{}, fmt.Errorf("resolving %s: %w", form.Text, ErrNotFound)
}
