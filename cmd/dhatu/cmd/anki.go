package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/dhatu/internal/anki"
	"github.com/f3rmion/dhatu/internal/paradigm"
	"github.com/f3rmion/dhatu/internal/script"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const ankiInspectLimit = 5

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for exporting paradigms as Anki .apkg decks and inspecting them.`,
}

var ankiExportCmd = &cobra.Command{
	Use:   "export <root>",
	Short: "Export the forms of a root as an Anki deck",
	Long: `Write one note per form of a root: every finite form for the chosen
prayoga and sanadi, then every common derived form. Each note holds the form,
the root with its meaning, and the grammatical description; with --traces it
also holds the derivation.

Note GUIDs depend only on form, root and description, so re-importing an
updated deck updates notes in place.

Example:
  dhatu anki export 01.0001
  dhatu anki export bhU --traces -o bhU.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiExport,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Decks
  - Note types (models) and their fields
  - Sample notes

Example:
  dhatu anki inspect 01.0001.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiExportCmd, ankiInspectCmd)

	addFilterFlags(ankiExportCmd)
	ankiExportCmd.Flags().StringP("output", "o", "", "output file (default <code>.apkg)")
	ankiExportCmd.Flags().Bool("traces", false, "include derivations")
}

func runAnkiExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	f, err := filters(cmd)
	if err != nil {
		return err
	}
	traces, _ := cmd.Flags().GetBool("traces")

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

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = root.Code + ".apkg"
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
	if len(forms) == 0 {
		return fmt.Errorf("no forms for %s", root.Code)
	}

	resolver := paradigm.NewResolver(eng, paradigm.WithLogger(logger))
	notes := make([]anki.FormNote, 0, len(forms))
	for _, form := range forms {
		var trace string
		if traces {
			p, err := resolver.Resolve(ctx, form)
			switch {
			case errors.Is(err, paradigm.ErrNotFound):
				logger.Warn("derivation unavailable", zap.String("form", form.Text), zap.String("label", form.Label()))
			case err != nil:
				return err
			default:
				if trace, err = r.TraceString(p); err != nil {
					return err
				}
			}
		}
		notes = append(notes, anki.NoteFor(root, form, r.Show, strings.TrimRight(trace, "\n")))
	}

	deck := "dhatu::" + root.Code + " " + script.StripSvaras(root.Upadesha)
	if err := anki.Export(output, deck, notes); err != nil {
		return fmt.Errorf("exporting deck: %w", err)
	}

	// Read the file back so a broken export fails here rather than in Anki.
	pkg, err := anki.Open(output)
	if err != nil {
		return fmt.Errorf("verifying deck: %w", err)
	}
	defer pkg.Close()

	fmt.Fprintf(out, "Wrote %d notes to %s\n", len(pkg.Notes), output)
	return nil
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Opening: %s\n\n", path)

	pkg, err := anki.Open(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprint(out, pkg.Summary())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Field Details:")
	for _, model := range pkg.Models {
		fmt.Fprintf(out, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Fprintf(out, "    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Sample Notes (first %d):\n", ankiInspectLimit)
	for _, note := range pkg.Notes[:min(ankiInspectLimit, len(pkg.Notes))] {
		model, ok := pkg.Models[note.ModelID]
		if !ok {
			fmt.Fprintf(out, "\n  Note %d (Model: unknown):\n", note.ID)
			continue
		}

		fmt.Fprintf(out, "\n  Note %d (Model: %s):\n", note.ID, model.Name)
		for _, field := range model.Fields {
			value := pkg.FieldValue(note, field.Name)
			if first, _, cut := strings.Cut(value, "\n"); cut {
				value = first + " ..."
			}
			fmt.Fprintf(out, "    %s: %s\n", field.Name, value)
		}
		if len(note.Tags) > 0 {
			fmt.Fprintf(out, "    Tags: %s\n", strings.Join(note.Tags, " "))
		}
	}

	return nil
}
