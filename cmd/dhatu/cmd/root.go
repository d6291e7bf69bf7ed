// Package cmd contains all CLI commands for dhatu.
package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/dhatu/internal/clipboard"
	"github.com/f3rmion/dhatu/internal/config"
	"github.com/f3rmion/dhatu/internal/logging"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/tui"
	"github.com/f3rmion/dhatu/internal/tui/banner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgDir string

	// v carries flag and DHATU_* environment overrides.
	v = config.NewViper()

	// Set by setup before any command runs.
	cfg    = config.Default()
	logger = zap.NewNop()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dhatu",
	Short: "Explore Sanskrit verbal paradigms",
	Long: `dhatu browses the roots of the Dhatupatha and the forms derived from them.

Pick a root to see its finite paradigm (tinantas) for every lakara and pada,
or its common derived forms (krdantas). Pick a form to see the rules of its
derivation, step by step.

Derivations come from an engine: a local sqlite database of precomputed
derivations (see 'dhatu import') or an HTTP engine service.

Running 'dhatu' without arguments launches the interactive TUI.`,
	SilenceUsage: true,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
	RunE: runTUI,
}

// ExecuteContext runs the command tree with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Assigned here since setup refers back to rootCmd.
	rootCmd.PersistentPreRunE = setup

	f := rootCmd.PersistentFlags()
	f.StringVar(&cfgDir, "config", "", "config directory (default is $HOME/.config/dhatu)")
	f.Bool("verbose", false, "debug logging")
	f.String("lexicon", "", "dhatupatha TSV file or URL")
	f.String("engine", "", "derivation engine: sqlite or http")
	f.String("dsn", "", "sqlite engine database")
	f.String("url", "", "http engine base URL")
	f.String("script", "", "display script: slp1, hk, iast or devanagari")
	f.Int("workers", 0, "concurrent engine calls while generating a paradigm")

	flags := map[string]string{
		"lexicon":        "lexicon",
		"engine.kind":    "engine",
		"engine.dsn":     "dsn",
		"engine.url":     "url",
		"display.script": "script",
		"workers":        "workers",
	}
	for key, name := range flags {
		_ = v.BindPFlag(key, f.Lookup(name))
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	if cfgDir != "" {
		return cfgDir, nil
	}
	return config.DefaultDir()
}

// setup loads the configuration and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	dir, err := configDir()
	if err != nil {
		return fmt.Errorf("finding config directory: %w", err)
	}

	loaded, err := config.Load(dir)
	if err != nil {
		return err
	}
	loaded.Overlay(v)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		loaded.Log.Level = "debug"
	}

	// init must work even when the existing file is broken.
	if cmd != initCmd {
		if err := loaded.Validate(); err != nil {
			return err
		}
	}

	// The TUI owns the terminal, so it logs to a file.
	logFile := loaded.Log.File
	if cmd == rootCmd && logFile == "" {
		logFile = filepath.Join(dir, "dhatu.log")
	}

	l, err := logging.New(loaded.Log.Level, logFile)
	if err != nil {
		return err
	}

	cfg, logger = loaded, l
	logger.Debug("configuration loaded",
		zap.String("dir", dir),
		zap.String("engine", cfg.Engine.Kind),
		zap.String("script", cfg.Display.Script),
		zap.Int("workers", cfg.Workers))
	return nil
}

// runTUI launches the interactive explorer.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	idx, err := loadLexicon(ctx)
	if err != nil {
		return err
	}

	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	renderer, err := newRenderer()
	if err != nil {
		return err
	}

	ban, err := banner.New(banner.DevanagariFonts)
	if err != nil {
		logger.Warn("banner disabled", zap.Error(err))
		ban = nil
	}

	var clip clipboard.Writer
	if clipboard.Available() {
		clip = clipboard.System{}
	} else {
		logger.Info("no clipboard tool found, copying disabled")
	}

	app := tui.NewApp(tui.Deps{
		Context:   ctx,
		Index:     idx,
		Generator: newGenerator(eng),
		Resolver:  paradigm.NewResolver(eng, paradigm.WithLogger(logger)),
		Renderer:  renderer,
		Clipboard: clip,
		Banner:    ban,
		Logger:    logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}
