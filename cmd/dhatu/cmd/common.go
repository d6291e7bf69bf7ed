package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/f3rmion/dhatu/internal/grammar"
	"github.com/f3rmion/dhatu/internal/lexicon"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/render"
	"github.com/f3rmion/dhatu/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var conv script.Converter = script.Transliterator{}

func loadLexicon(ctx context.Context) (*lexicon.Index, error) {
	client := &http.Client{Timeout: cfg.LexiconTimeout}
	idx, err := lexicon.Load(ctx, cfg.Lexicon, client, conv)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}
	logger.Info("lexicon loaded", zap.String("source", cfg.Lexicon), zap.Int("roots", idx.Len()))
	return idx, nil
}

// openEngine returns the configured engine and a function releasing it.
func openEngine() (engine.Engine, func(), error) {
	switch cfg.Engine.Kind {
	case "sqlite":
		store, err := engine.OpenStore(cfg.Engine.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case "http":
		client, err := engine.NewClient(cfg.Engine.URL, engine.WithTimeout(cfg.Engine.Timeout))
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", engine.ErrUnknownKind, cfg.Engine.Kind)
}

func newRenderer() (*render.Renderer, error) {
	scheme, err := cfg.Script()
	if err != nil {
		return nil, err
	}
	r := render.New(conv, scheme)
	if err := r.SetTemplates(cfg.Display.Templates); err != nil {
		return nil, fmt.Errorf("display.templates: %w", err)
	}
	return r, nil
}

func newGenerator(eng engine.Engine) *paradigm.Generator {
	return paradigm.NewGenerator(eng, paradigm.WithWorkers(cfg.Workers), paradigm.WithLogger(logger))
}

// findRoot resolves a command argument to a root: a code, or a query that
// matches exactly one root or one citation form.
func findRoot(idx *lexicon.Index, arg string) (lexicon.RootEntry, error) {
	if e, ok := idx.Lookup(arg); ok {
		return e, nil
	}

	matches := idx.Filter(arg)
	switch len(matches) {
	case 0:
		return lexicon.RootEntry{}, fmt.Errorf("no root matches %q", arg)
	case 1:
		return matches[0], nil
	}

	readings := []string{
		conv.Convert(arg, script.Devanagari, script.SLP1),
		conv.Convert(arg, script.HK, script.SLP1),
	}
	var exact []lexicon.RootEntry
	for _, e := range matches {
		for _, r := range readings {
			if e.Query == r {
				exact = append(exact, e)
				break
			}
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	codes := make([]string, 0, 3)
	for _, e := range matches[:min(3, len(matches))] {
		codes = append(codes, e.Code)
	}
	return lexicon.RootEntry{}, fmt.Errorf("%q matches %d roots (%s...); use a code", arg, len(matches), strings.Join(codes, ", "))
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("prayoga", "", "prayoga: kartari, karmani or bhave (default kartari)")
	cmd.Flags().String("sanadi", "", "sanadi suffix: san, yaN, yaNluk or Ric")
}

// filters reads the flags added by addFilterFlags.
func filters(cmd *cobra.Command) (paradigm.Filters, error) {
	var f paradigm.Filters

	if s, _ := cmd.Flags().GetString("prayoga"); s != "" {
		p, err := grammar.ParsePrayoga(s)
		if err != nil {
			return f, err
		}
		f.Prayoga = &p
	}

	if s, _ := cmd.Flags().GetString("sanadi"); s != "" {
		sn, err := grammar.ParseSanadi(s)
		if err != nil {
			return f, err
		}
		f.Sanadi = &sn
	}

	return f, nil
}

// allForms generates the finite paradigm under f followed by the derived
// forms of root.
func allForms(ctx context.Context, gen *paradigm.Generator, root string, f paradigm.Filters) ([]paradigm.Form, error) {
	finite, err := gen.GenerateFinite(ctx, root, f)
	if err != nil {
		return nil, err
	}
	derived, err := gen.GenerateDerived(ctx, root)
	if err != nil {
		return nil, err
	}
	return append(finite.Forms(), derived.Forms()...), nil
}
