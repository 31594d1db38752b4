package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/analysis"
	"github.com/haivivi/beatsmith/pkg/cli"
)

var (
	importFile string
	importName string
)

var analysisCmd = &cobra.Command{
	Use:     "analysis",
	Aliases: []string{"lib"},
	Short:   "Manage imported detector documents",
	Long: `The analysis library keeps detector documents so tracks can be
regenerated with other settings without running the detector again.

The library is a Badger database in ~/.beatsmith/library, or the
library_dir of the active context.

Examples:
  beatsmith analysis import -f track.yaml --name "My Track"
  beatsmith analysis list
  beatsmith analysis get <id> --format json
  beatsmith analysis delete <id>`,
}

var analysisImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Validate and store a detector document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(importFile)
		if err != nil {
			return err
		}
		if _, err := doc.Metadata(); err != nil {
			return err
		}
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		r := analysis.NewRecord(doc, importName)
		if err := lib.Put(cmd.Context(), r); err != nil {
			return err
		}
		format, err := getFormat()
		if err != nil {
			return err
		}
		if format != cli.FormatText {
			return output(r)
		}
		cli.PrintSuccess("Imported %q as %s", r.Name, r.ID)
		return nil
	},
}

var analysisListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List imported documents",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		var records []*analysis.Record
		for r, err := range lib.List(cmd.Context()) {
			if err != nil {
				return err
			}
			records = append(records, r)
		}

		format, err := getFormat()
		if err != nil {
			return err
		}
		if format != cli.FormatText {
			if records == nil {
				records = []*analysis.Record{}
			}
			return output(records)
		}
		if len(records) == 0 {
			fmt.Println("No documents imported.")
			fmt.Println("Import one with: beatsmith analysis import -f <file>")
			return nil
		}
		sum := cli.Summary{
			Styles:  cli.NewStyles(cli.DefaultTheme),
			Title:   "Analysis library",
			Headers: []string{"ID", "Name", "BPM", "Beats", "Length", "Imported"},
		}
		for _, r := range records {
			sum.Rows = append(sum.Rows, []string{
				r.ID,
				r.Name,
				strconv.FormatFloat(r.Document.BPM, 'g', 6, 64),
				strconv.Itoa(len(r.Document.Beats)),
				cli.FormatDuration(r.Document.Length.Duration()),
				r.ImportedAt.String(),
			})
		}
		fmt.Print(sum.Render())
		return nil
	},
}

var analysisGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an imported document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		r, err := lib.Get(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("analysis %s: %w", args[0], err)
		}
		return output(r)
	},
}

var analysisDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an imported document",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closeLib, err := openLibrary()
		if err != nil {
			return err
		}
		defer closeLib()

		if err := lib.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		cli.PrintSuccess("Deleted %s", args[0])
		return nil
	},
}

func init() {
	analysisImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "detector document (YAML or JSON, - for stdin)")
	analysisImportCmd.Flags().StringVar(&importName, "name", "", "name to store (default: document name)")
	analysisImportCmd.MarkFlagRequired("file")

	analysisCmd.AddCommand(analysisImportCmd)
	analysisCmd.AddCommand(analysisListCmd)
	analysisCmd.AddCommand(analysisGetCmd)
	analysisCmd.AddCommand(analysisDeleteCmd)
	rootCmd.AddCommand(analysisCmd)
}
