package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/cmd/beatsmith/internal/build"
	"github.com/haivivi/beatsmith/pkg/cli"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := getFormat()
		if err != nil {
			return err
		}
		if format != cli.FormatText {
			return output(build.Get())
		}
		fmt.Println(build.String())
		if isVerbose() {
			fmt.Printf("  go:     %s\n", build.Get().Go)
			if cfg, err := getConfig(); err == nil {
				fmt.Printf("  config: %s\n", cfg.Path())
			} else {
				fmt.Printf("  config: (unavailable: %v)\n", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
