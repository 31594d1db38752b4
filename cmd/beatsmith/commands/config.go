package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/beatsmith/pkg/cli"
)

var (
	ctxSkill      float64
	ctxSeed       uint64
	ctxOutput     string
	ctxParallel   bool
	ctxLibraryDir string
	ctxEnv        string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage contexts. A context is a named set of generation defaults:
skill level, seed, output location, parallelism, library directory,
manifest environment and S3 settings. Command flags override them.

Examples:
  beatsmith config add-context studio --skill 0.7 --output ./packs
  beatsmith config use-context studio
  beatsmith config set studio s3.endpoint http://localhost:9000
  beatsmith config list-contexts
  beatsmith config view`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Create or replace a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		name := args[0]
		c := &cli.Context{
			Output:      ctxOutput,
			Parallel:    ctxParallel,
			LibraryDir:  ctxLibraryDir,
			Environment: ctxEnv,
		}
		flags := cmd.Flags()
		if flags.Changed("skill") {
			if err := c.Set("skill_level", fmt.Sprint(ctxSkill)); err != nil {
				return err
			}
		}
		if flags.Changed("seed") {
			seed := ctxSeed
			c.Seed = &seed
		}
		if c.Output != "" {
			if err := c.Set("output", c.Output); err != nil {
				return err
			}
		}
		if err := cfg.AddContext(name, c); err != nil {
			return err
		}
		fmt.Printf("Context %q saved.\n", name)
		if cfg.CurrentContext == "" {
			fmt.Printf("Activate it with: beatsmith config use-context %s\n", name)
		}
		return nil
	},
}

var configDeleteContextCmd = &cobra.Command{
	Use:   "delete-context <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.DeleteContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Context %q deleted.\n", args[0])
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if err := cfg.UseContext(args[0]); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", args[0])
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:     "list-contexts",
	Aliases: []string{"ls"},
	Short:   "List all contexts",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("Create one with: beatsmith config add-context <name>")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tSKILL\tOUTPUT")
		for _, name := range names {
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			c := cfg.Contexts[name]
			skill := "-"
			if c.SkillLevel != nil {
				skill = fmt.Sprint(*c.SkillLevel)
			}
			out := c.Output
			if out == "" {
				out = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", current, name, skill, out)
		}
		return w.Flush()
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Display the current context name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set.")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <context> <key> <value>",
	Short: "Set a context value",
	Long: `Set one value of a context. Valid keys:
  ` + strings.Join(cli.ContextKeys, "\n  "),
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		c, err := cfg.GetContext(args[0])
		if err != nil {
			return err
		}
		if err := c.Set(args[1], args[2]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Printf("Set %s.%s\n", args[0], args[1])
		return nil
	},
}

var configViewCmd = &cobra.Command{
	Use:   "view [context]",
	Short: "Show configuration with secrets masked",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			c, err := cfg.GetContext(args[0])
			if err != nil {
				return err
			}
			return output(c.Masked())
		}
		view := cli.Config{
			CurrentContext: cfg.CurrentContext,
			Contexts:       make(map[string]*cli.Context, len(cfg.Contexts)),
		}
		for name, c := range cfg.Contexts {
			view.Contexts[name] = c.Masked()
		}
		return output(&view)
	},
}

func init() {
	f := configAddContextCmd.Flags()
	f.Float64Var(&ctxSkill, "skill", 0, "skill level in [0, 1]")
	f.Uint64Var(&ctxSeed, "seed", 0, "fixed random seed")
	f.StringVar(&ctxOutput, "output", "", "output root: directory or s3://bucket/prefix")
	f.BoolVar(&ctxParallel, "parallel", false, "generate difficulties concurrently")
	f.StringVar(&ctxLibraryDir, "library-dir", "", "analysis library directory")
	f.StringVar(&ctxEnv, "environment", "", "manifest environment name")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configDeleteContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configCurrentContextCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configViewCmd)
	rootCmd.AddCommand(configCmd)
}
