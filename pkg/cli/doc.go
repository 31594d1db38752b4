// Package cli provides the shared pieces of the beatsmith command line.
//
// This package includes:
//   - Configuration management (named contexts, like kubectl)
//   - Output formatting (JSON, YAML, raw) and jq queries over results
//   - Input file loading (YAML/JSON, or stdin)
//   - Styled summaries for the terminal
//
// Configuration is stored in ~/.beatsmith/config.yaml. Set
// BEATSMITH_CONFIG_DIR to use another directory.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig()
//	ctx := cfg.Effective("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	})
package cli
