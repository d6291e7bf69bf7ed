package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/f3rmion/dhatu/internal/config"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize dhatu configuration",
	Long: `Write a config.yaml with the default settings to your config directory:

  lexicon         dhatupatha TSV file or URL
  lexicon_timeout timeout for fetching a lexicon URL
  engine.kind     sqlite or http
  engine.dsn      sqlite database of precomputed derivations
  engine.url      base URL of an http engine
  display.script  slp1, hk, iast or devanagari
  display.templates
                  text/template overrides for roots, finite, derived or trace
  workers         concurrent engine calls per paradigm
  log.level       debug, info, warn or error

Flags and DHATU_* environment variables (for example DHATU_ENGINE_KIND)
override the file.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().Bool("force", false, "overwrite existing configuration")
}

func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	out := cmd.OutOrStdout()

	dir, err := configDir()
	if err != nil {
		return fmt.Errorf("finding config directory: %w", err)
	}
	path := filepath.Join(dir, config.FileName)

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	if err := config.Default().Save(dir); err != nil {
		return err
	}

	fmt.Fprintf(out, "Created %s\n\n", path)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Point lexicon at a dhatupatha TSV (code, upadesha, artha)")
	fmt.Fprintln(out, "  2. Run 'dhatu import <dump.jsonl>' to fill the sqlite engine, or set engine.kind: http")
	fmt.Fprintln(out, "  3. Run 'dhatu roots bhU' to test a lookup")

	return nil
}
