// Package cli provides the command-line interface for trigdata.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/trigdata/internal/cli/commands"
	"github.com/leapstack-labs/trigdata/internal/cli/config"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version is set at build time.
var Version = "0.1.0"

// Command groups shown in help output.
const (
	groupInspect = "inspect"
	groupEdit    = "edit"
	groupSession = "session"
	groupProject = "project"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trigdata",
		Short: "trigdata - Warcraft III trigger data toolkit",
		Long: `trigdata reads, validates and edits Warcraft III TriggerData.txt files.

Records (categories, types, type defaults, conditions, actions and calls)
are loaded into a symbol table that enforces unique names and refuses to
remove a record while others still reference it. Edited tables are written
back in canonical form.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			cmd.SetContext(context.WithValue(cmd.Context(), config.LoggerKey(), logger))
			logger.Debug("configuration loaded",
				"file", config.GetConfigFileUsed(),
				"packages_dir", cfg.PackagesDir,
				"output", cfg.OutputFormat)

			// Print config file used (if verbose)
			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Warcraft III trigger data toolkit
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./trigdata.yaml)")
	rootCmd.PersistentFlags().String("packages-dir", "", "Path to packages directory")
	rootCmd.PersistentFlags().Bool("preserve-unmodeled", true, "Keep TriggerEvents, TriggerParams and default trigger sections as opaque records")
	rootCmd.PersistentFlags().Bool("preserve-unrecognized", false, "Keep every unrecognized section as opaque records")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (text|json)")
	rootCmd.PersistentFlags().Int("jobs", config.DefaultJobs, "Files checked in parallel")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json|yaml)")

	// Register completion for enum flags
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"text", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: groupInspect, Title: "Inspect Commands:"},
		&cobra.Group{ID: groupEdit, Title: "Edit Commands:"},
		&cobra.Group{ID: groupSession, Title: "Interactive Commands:"},
		&cobra.Group{ID: groupProject, Title: "Project Commands:"},
	)
	addGroup(rootCmd, groupInspect,
		commands.NewCheckCommand(),
		commands.NewDoctorCommand(),
		commands.NewListCommand(),
		commands.NewShowCommand(),
		commands.NewRefsCommand(),
	)
	addGroup(rootCmd, groupEdit,
		commands.NewFmtCommand(),
		commands.NewRemoveCommand(),
		commands.NewMoveCommand(),
	)
	addGroup(rootCmd, groupSession,
		commands.NewChooseCommand(),
		commands.NewShellCommand(),
		commands.NewWatchCommand(),
	)
	addGroup(rootCmd, groupProject,
		commands.NewInitCommand(),
		commands.NewPackageCommand(),
	)
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func addGroup(root *cobra.Command, id string, cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		cmd.GroupID = id
		root.AddCommand(cmd)
	}
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for trigdata.

Completions cover subcommands, flags and the values of enum flags such as
--kind, --output and --log-level.`,
		Example: `  # Bash, current session
  source <(trigdata completion bash)

  # Zsh, every session
  trigdata completion zsh > "${fpath[1]}/_trigdata"

  # Fish
  trigdata completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}
