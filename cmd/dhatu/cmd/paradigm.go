package cmd

import (
	"github.com/spf13/cobra"
)

var rootsCmd = &cobra.Command{
	Use:   "roots [query]",
	Short: "List roots of the Dhatupatha",
	Long: `List the roots whose code, citation form or meaning contains query.

The query may be typed in Devanagari or Harvard-Kyoto.

Example:
  dhatu roots
  dhatu roots भू
  dhatu roots bhU`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoots,
}

var tinCmd = &cobra.Command{
	Use:   "tin <root>",
	Short: "Print the finite paradigm of a root",
	Long: `Print the tinantas of a root: one table per lakara and pada, persons as
rows and numbers as columns. Tables and cells the engine has no forms for are
left out.

The root is a code such as 01.0001 or a query matching a single root.

Example:
  dhatu tin 01.0001
  dhatu tin bhU --prayoga karmani
  dhatu tin 01.0001 --sanadi san`,
	Args: cobra.ExactArgs(1),
	RunE: runTin,
}

var krtCmd = &cobra.Command{
	Use:   "krt <root>",
	Short: "Print the common derived forms of a root",
	Long: `Print the krdantas of a root for the common krt suffixes
(tavya, anIyar, Satf, SAnac, kta, ktavatu, kvasu, kAnac, tumun, ktvA).

Example:
  dhatu krt 01.0001`,
	Args: cobra.ExactArgs(1),
	RunE: runKrt,
}

func init() {
	rootCmd.AddCommand(rootsCmd, tinCmd, krtCmd)
	addFilterFlags(tinCmd)
}

func runRoots(cmd *cobra.Command, args []string) error {
	idx, err := loadLexicon(cmd.Context())
	if err != nil {
		return err
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	return r.Roots(cmd.OutOrStdout(), idx.Filter(query))
}

func runTin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	f, err := filters(cmd)
	if err != nil {
		return err
	}
	idx, err := loadLexicon(ctx)
	if err != nil {
		return err
	}
	root, err := findRoot(idx, args[0])
	if err != nil {
		return err
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}

	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	p, err := newGenerator(eng).GenerateFinite(ctx, root.Code, f)
	if err != nil {
		return err
	}
	return r.Finite(cmd.OutOrStdout(), p)
}

func runKrt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	idx, err := loadLexicon(ctx)
	if err != nil {
		return err
	}
	root, err := findRoot(idx, args[0])
	if err != nil {
		return err
	}
	r, err := newRenderer()
	if err != nil {
		return err
	}

	eng, closeEngine, err := openEngine()
	if err != nil {
		return err
	}
	defer closeEngine()

	d, err := newGenerator(eng).GenerateDerived(ctx, root.Code)
	if err != nil {
		return err
	}
	return r.Derived(cmd.OutOrStdout(), d)
}
