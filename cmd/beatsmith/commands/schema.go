package commands

import (
	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/analysis"
	"github.com/haivivi/beatsmith/pkg/cli"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of detector documents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := analysis.Schema()
		if err != nil {
			return err
		}
		format, err := getFormat()
		if err != nil {
			return err
		}
		if format == cli.FormatText {
			format = cli.FormatJSON
		}
		return cli.Output(s, cli.OutputOptions{Format: format})
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
