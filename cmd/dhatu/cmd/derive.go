package cmd

import (
	"errors"
	"fmt"

	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/script"
	"github.com/spf13/cobra"
)

var deriveCmd = &cobra.Command{
	Use:   "derive <root> <form>...",
	Short: "Show how forms of a root are derived",
	Long: `Find each form in the paradigm of a root and print its derivation, one
rule application per line. A form that occurs in several places (for example
in two lakaras) is shown once per place.

Forms are read in the script given by --input (default slp1).

Example:
  dhatu derive 01.0001 Bavati BUta
  dhatu derive 01.0001 bhavati --input hk
  dhatu derive 01.0001 BUyate --prayoga karmani`,
	Args: cobra.MinimumNArgs(2),
	RunE: runDerive,
}

func init() {
	rootCmd.AddCommand(deriveCmd)
	addFilterFlags(deriveCmd)
	deriveCmd.Flags().String("input", "slp1", "script of the forms: slp1, hk, iast or devanagari")
}

func runDerive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	input, _ := cmd.Flags().GetString("input")
	scheme, err := script.ParseScheme(input)
	if err != nil {
		return err
	}
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

	forms, err := allForms(ctx, newGenerator(eng), root.Code, f)
	if err != nil {
		return err
	}
	resolver := paradigm.NewResolver(eng, paradigm.WithLogger(logger))

	var missing []string
	for _, arg := range args[1:] {
		text := conv.Convert(arg, scheme, script.SLP1)

		found := false
		for _, form := range forms {
			if form.Text != text {
				continue
			}
			found = true

			fmt.Fprintf(out, "%s · %s\n", root.Code, form.Label())
			p, err := resolver.Resolve(ctx, form)
			if errors.Is(err, paradigm.ErrNotFound) {
				fmt.Fprintf(out, "%s\n  derivation unavailable\n\n", r.Show(form.Text))
				continue
			}
			if err != nil {
				return err
			}
			if err := r.Trace(out, p); err != nil {
				return err
			}
			fmt.Fprintln(out)
		}

		if !found {
			missing = append(missing, arg)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("not in the paradigm of %s: %v", root.Code, missing)
	}
	return nil
}
