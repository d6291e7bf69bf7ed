package cmd

import (
	"fmt"
	"os"

	"github.com/f3rmion/dhatu/internal/engine"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import <dump.jsonl>...",
	Short: "Load precomputed derivations into the sqlite engine",
	Long: `Read JSON Lines dumps of derivations into the sqlite database given by
engine.dsn (or --dsn). Each line is one record:

  {"kind":"tin","tin":{"dhatu":"01.0001","lakara":"lat","prayoga":"kartari",
   "purusha":"prathama","vacana":"eka","pada":"parasmai"},"prakriyas":[...]}
  {"kind":"krt","krt":{"dhatu":"01.0001","krt":"kta"},"prakriyas":[...]}

A record replaces what the database holds for the same arguments. Malformed
lines are skipped and counted.

Example:
  dhatu import tinantas.jsonl krdantas.jsonl --dsn data/prakriya.db`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	store, err := engine.OpenStore(cfg.Engine.DSN, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	var total engine.ImportStats
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening dump: %w", err)
		}

		stats, err := store.Import(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("importing %s: %w", path, err)
		}

		logger.Debug("dump imported", zap.String("path", path), zap.Int("skipped", stats.Skipped))
		fmt.Fprintf(out, "%s: %d tinanta records, %d krdanta records, %d skipped\n",
			path, stats.Tinantas, stats.Krdantas, stats.Skipped)

		total.Tinantas += stats.Tinantas
		total.Krdantas += stats.Krdantas
		total.Skipped += stats.Skipped
	}

	if len(args) > 1 {
		fmt.Fprintf(out, "total: %d tinanta records, %d krdanta records, %d skipped\n",
			total.Tinantas, total.Krdantas, total.Skipped)
	}
	fmt.Fprintf(out, "database: %s\n", cfg.Engine.DSN)
	return nil
}
