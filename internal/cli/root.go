// Package cli provides the command-line interface for wfgraph.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/leapstack-labs/wfgraph/internal/cli/commands"
	"github.com/leapstack-labs/wfgraph/internal/cli/config"
	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	intconfig "github.com/leapstack-labs/wfgraph/internal/config"
	"github.com/leapstack-labs/wfgraph/internal/render"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command. Run without a
// subcommand it renders the workflow diagram.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "wfgraph",
		Short: "wfgraph - CI workflow diagram generator",
		Long: `wfgraph reads a directory of CI workflow definitions and renders a
Graphviz diagram of them: one cluster per workflow file, its triggers,
its jobs, the needs between jobs, and the references from jobs that
delegate to another workflow in the same directory.

By default only workflows that call or are called by another workflow
are drawn. Use --show-all to draw every workflow.`,
		Example: `  # Render the diagram to stdout
  wfgraph -i .github/workflows | dot -Tsvg > workflows.svg

  # Draw every workflow and write the document to a file
  wfgraph -i .github/workflows --show-all --out workflows.dot

  # Keep the file up to date while editing
  wfgraph -i .github/workflows --out workflows.dot --watch

  # Emit the graph model as JSON
  wfgraph -i .github/workflows --format json`,
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

			logger := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if cfg.ConfigFile != "" {
				logger.Debug("using config file", "file", cfg.ConfigFile)
			}
			return nil
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunGraph(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set version template
	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./wfgraph.yaml)")
	flags.StringP("input", "i", "", "Path to the workflows directory")
	flags.Bool("show-all", false, "Draw every workflow, not only connected ones")
	flags.Bool("reference-edges", true, "Draw edges from delegating jobs to the workflows they call")
	flags.Bool("link-triggers", false, "Chain trigger nodes so they stack in one column")
	flags.String("format", intconfig.DefaultFormat, "Document format (dot|json)")
	flags.String("out", "", "Write the document to a file instead of stdout")
	flags.Bool("watch", false, "Regenerate whenever a workflow file changes")
	flags.StringSlice("ext", intconfig.DefaultExtensions(), "Workflow file extensions")
	flags.Int("concurrency", intconfig.DefaultConcurrency, "Parallel file parsing (0 for one worker per CPU)")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Report format for list and stages (auto|text|markdown|json)")

	_ = rootCmd.MarkPersistentFlagDirname("input")
	_ = rootCmd.MarkPersistentFlagFilename("config", "yaml", "yml")

	// Register completion for enum flags
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return output.Modes(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		formats := make([]string, 0, len(render.Formats()))
		for _, f := range render.Formats() {
			formats = append(formats, string(f))
		}
		return formats, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version, GitCommit, BuildDate))
	rootCmd.AddCommand(commands.NewListCommand())
	rootCmd.AddCommand(commands.NewStagesCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command with args, printing any error once to
// stderr.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for wfgraph.

To load completions:

Bash:
  $ source <(wfgraph completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ wfgraph completion bash > /etc/bash_completion.d/wfgraph
  # macOS:
  $ wfgraph completion bash > $(brew --prefix)/etc/bash_completion.d/wfgraph

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ wfgraph completion zsh > "${fpath[1]}/_wfgraph"

Fish:
  $ wfgraph completion fish | source

PowerShell:
  PS> wfgraph completion powershell | Out-String | Invoke-Expression
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
