package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/analysis"
	"github.com/haivivi/beatsmith/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	contextName  string
	formatOutput string
	verbose      bool

	// Global configuration (loaded at init time)
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "beatsmith",
	Short: "Generate rhythm game levels from beat detector output",
	Long: `beatsmith - turns beat and intensity analysis of a track into a
playable level pack with one level per difficulty.

A detector document (YAML or JSON) lists the sample rate, tempo, beat
positions and intensity samples of a track. beatsmith schedules notes for
the Easy, Normal, Hard and Expert difficulties, spacing them according to
the player's skill level and the local intensity, and writes the level
files and manifest to a directory or an S3 bucket.

Configuration is stored in ~/.beatsmith/config.yaml (or the directory named
by BEATSMITH_CONFIG_DIR) and supports multiple contexts, like kubectl.

Examples:
  # Generate a pack from a detector document
  beatsmith generate -f track.yaml --name "My Track" --author me -o ./pack

  # Keep the analysis around and regenerate later
  beatsmith analysis import -f track.yaml
  beatsmith generate --id <id> --skill 0.8 --seed 42

  # Upload straight to S3
  beatsmith config add-context prod --output s3://levels/packs
  beatsmith config set prod s3.region eu-west-1
  beatsmith -c prod generate -f track.yaml --name "My Track"

  # Look into a generated level
  beatsmith inspect ./pack/Expert.json --query '._notes | length'`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command with ctx, which is canceled on
// interrupt by main.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.beatsmith/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVar(&formatOutput, "format", "text", "output format: text, json, yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// configLoadErr stores the error from config loading for deferred reporting.
var configLoadErr error

func initConfig() {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	var cfg *cli.Config
	var err error
	if cfgFile != "" {
		cfg, err = cli.LoadConfigWithPath(cfgFile)
	} else {
		cfg, err = cli.LoadConfig()
	}
	// Commands that need config report the error via getConfig, so
	// 'beatsmith version' still works without a home directory.
	globalConfig, configLoadErr = cfg, err
}

// getConfig returns the global configuration.
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		return nil, fmt.Errorf("configuration not initialized")
	}
	return globalConfig, nil
}

// getContext returns the settings to run with: the -c context, the current
// context, or built-in defaults when neither exists.
func getContext() (*cli.Config, *cli.Context, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, nil, err
	}
	ctx, err := cfg.Effective(contextName)
	if err != nil {
		return nil, nil, err
	}
	return cfg, ctx, nil
}

// getFormat validates the --format flag.
func getFormat() (cli.OutputFormat, error) {
	return cli.ParseOutputFormat(formatOutput)
}

// openLibrary opens the analysis library for the active context. The
// caller must call the returned close function.
func openLibrary() (analysis.Library, func(), error) {
	cfg, ctx, err := getContext()
	if err != nil {
		return nil, nil, err
	}
	dir := cfg.LibraryPath(ctx)
	slog.Debug("opening analysis library", "dir", dir)
	lib, err := analysis.OpenBadger(analysis.BadgerOptions{Dir: dir})
	if err != nil {
		return nil, nil, err
	}
	return lib, func() {
		if err := lib.Close(); err != nil {
			slog.Warn("close analysis library", "error", err)
		}
	}, nil
}

// output writes v in the selected machine-readable format.
func output(v any) error {
	format, err := getFormat()
	if err != nil {
		return err
	}
	return cli.Output(v, cli.OutputOptions{Format: format})
}

// isVerbose returns whether verbose mode is enabled.
func isVerbose() bool {
	return verbose
}
