// Package cli provides the command-line interface for sqlt.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/internal/cli/commands"
	"github.com/leapstack-labs/sqlt/internal/cli/config"
	"github.com/leapstack-labs/sqlt/pkg/dialect"
	"github.com/leapstack-labs/sqlt/pkg/parser"

	// Register the built-in dialects.
	_ "github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "sqlt",
		Short: "sqlt - SQL dialect translator",
		Long: `sqlt parses SQL written for one database and renders it for another.

It understands ANSI SQL, PostgreSQL, MySQL, SQLite and Databricks, and can
tokenize, parse, format and translate statements, check the result against
a real engine, or serve the same operations over HTTP.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), cfg.Verbose)
			cmd.SetContext(config.WithLogger(cmd.Context(), logger))

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
SQL dialect translator
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: sqlt.yaml in the current or a parent directory)")
	flags.StringP("dialect", "d", "", "Source dialect (default ansi)")
	flags.StringP("target", "t", "", "Target dialect (default: the source dialect)")
	flags.StringP("output", "o", "", "Output format (auto|text|json|yaml)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.Bool("pretty", false, "Multi-line output, keeping comments")
	flags.String("keyword-case", "", "Keyword casing in output (upper|lower)")
	flags.StringSlice("reserved", nil, "Extra reserved words for the dialects")
	flags.Int("max-depth", parser.DefaultMaxDepth, "Maximum expression nesting depth")
	flags.Int("jobs", 0, "Files processed in parallel (default: number of CPUs)")

	dialectCompletion := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	}
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", dialectCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("target", dialectCompletion)
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputFormats, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("keyword-case", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"upper", "lower"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewTokensCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewFmtCommand())
	rootCmd.AddCommand(commands.NewTranslateCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewReplCommand())
	rootCmd.AddCommand(commands.NewVerifyCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger returns the diagnostics logger. Verbose mode logs debug
// records, otherwise only warnings and errors are shown.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Commands returning ErrReported have already printed diagnostics.
		if !errors.Is(err, commands.ErrReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for sqlt.

To load completions:

Bash:
  $ source <(sqlt completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ sqlt completion bash > /etc/bash_completion.d/sqlt
  # macOS:
  $ sqlt completion bash > $(brew --prefix)/etc/bash_completion.d/sqlt

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ sqlt completion zsh > "${fpath[1]}/_sqlt"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ sqlt completion fish | source

  # To load completions for each session, execute once:
  $ sqlt completion fish > ~/.config/fish/completions/sqlt.fish

PowerShell:
  PS> sqlt completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> sqlt completion powershell > sqlt.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
