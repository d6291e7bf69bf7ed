package paradigm

import (
	"context"
	"fmt"
	"time"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DefaultWorkers is the number of engine calls in flight during generation.
const DefaultWorkers = 4

// Option configures a Generator or Resolver.
type Option func(*options)

type options struct {
	workers int
	logger  *zap.Logger
}

// WithWorkers bounds the number of concurrent engine calls. Values below 1
// are treated as 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{workers: DefaultWorkers, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Filters are the user options of the finite view. Nil Prayoga means
// kartari; nil Sanadi means no sanadi.
type Filters struct {
	Prayoga *grammar.Prayoga
	Sanadi  *grammar.Sanadi
}

// Generator builds paradigms from an engine.
type Generator struct {
	eng engine.Engine
	options
}

// NewGenerator creates a generator.
func NewGenerator(eng engine.Engine, opts ...Option) *Generator {
	return &Generator{eng: eng, options: newOptions(opts)}
}

type cell struct {
	lakara  grammar.Lakara
	pada    grammar.Pada
	purusha grammar.Purusha
	vacana  grammar.Vacana
}

// GenerateFinite builds the finite paradigm of root. Every (lakara, pada,
// purusha, vacana) cell is derived with the pada pinned. Within a cell only
// the first form of each surface text is kept. Empty cells, tables and
// lakaras are omitted.
func (g *Generator) GenerateFinite(ctx context.Context, root string, f Filters) (*Finite, error) {
	start := time.Now()

	prayoga := grammar.Kartari
	if f.Prayoga != nil {
		prayoga = *f.Prayoga
	}

	var cells []cell
	for _, l := range grammar.Lakaras {
		for _, pada := range grammar.Padas {
			for _, pu := range grammar.Purushas {
				for _, v := range grammar.Vacanas {
					cells = append(cells, cell{l, pada, pu, v})
				}
			}
		}
	}

	// Each worker writes only its own slot, so results need no locking and
	// assembly order does not depend on completion order.
	results := make([][]Form, len(cells))

	p := g.pool(ctx)
	for i, c := range cells {
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pada := c.pada
			args := engine.TinArgs{
				Dhatu:   root,
				Lakara:  c.lakara,
				Prayoga: prayoga,
				Purusha: c.purusha,
				Vacana:  c.vacana,
				Pada:    &pada,
				Sanadi:  f.Sanadi,
			}
			ps, err := g.eng.DeriveTinantas(ctx, args)
			if err != nil {
				return fmt.Errorf("deriving %s %s %s %s %s: %w",
					root, c.lakara, c.pada, c.purusha, c.vacana, err)
			}
			results[i] = dedup(ps, func(text string) Form {
				return Form{
					Text:    text,
					Type:    TypeTin,
					Root:    root,
					Lakara:  args.Lakara,
					Prayoga: args.Prayoga,
					Purusha: args.Purusha,
					Vacana:  args.Vacana,
					Pada:    args.Pada,
					Sanadi:  args.Sanadi,
				}
			})
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	out := &Finite{Root: root, Prayoga: prayoga, Sanadi: f.Sanadi}
	var cur *Table
	for i, c := range cells {
		if len(results[i]) == 0 {
			continue
		}
		if cur == nil || cur.Lakara != c.lakara || cur.Pada != c.pada {
			out.Tables = append(out.Tables, Table{
				Lakara: c.lakara,
				Pada:   c.pada,
				Cells:  make(map[CellKey][]Form),
			})
			cur = &out.Tables[len(out.Tables)-1]
		}
		cur.Cells[CellKey{c.purusha, c.vacana}] = results[i]
	}

	g.logger.Debug("generated finite paradigm",
		zap.String("root", root),
		zap.Stringer("prayoga", prayoga),
		zap.Int("tables", len(out.Tables)),
		zap.Int("calls", len(cells)),
		zap.Duration("elapsed", time.Since(start)))

	return out, nil
}

// GenerateDerived builds the derived-forms view of root: one group per
// common krt, forms in engine order without deduplication.
func (g *Generator) GenerateDerived(ctx context.Context, root string) (*Derived, error) {
	start := time.Now()
	groups := make([]KrtGroup, len(grammar.CommonKrts))

	p := g.pool(ctx)
	for i, krt := range grammar.CommonKrts {
		groups[i].Krt = krt
		p.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ps, err := g.eng.DeriveKrdantas(ctx, engine.KrtArgs{Dhatu: root, Krt: krt})
			if err != nil {
				return fmt.Errorf("deriving %s %s: %w", root, krt, err)
			}
			forms := make([]Form, 0, len(ps))
			for _, pr := range ps {
				forms = append(forms, Form{Text: pr.Text, Type: TypeKrt, Root: root, Krt: krt})
			}
			groups[i].Forms = forms
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debug("generated derived forms",
		zap.String("root", root),
		zap.Duration("elapsed", time.Since(start)))

	return &Derived{Root: root, Groups: groups}, nil
}

func (g *Generator) pool(ctx context.Context) *pool.ContextPool {
	return pool.New().
		WithMaxGoroutines(g.workers).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()
}

// dedup keeps the first derivation of each surface text, in engine order.
func dedup(ps []engine.Prakriya, form func(string) Form) []Form {
	if len(ps) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ps))
	out := make([]Form, 0, len(ps))
	for _, p := range ps {
		if seen[p.Text] {
			continue
		}
		seen[p.Text] = true
		out = append(out, form(p.Text))
	}
	return out
}
