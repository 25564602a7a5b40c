package commands

import (
	"log/slog"

	"github.com/leapstack-labs/wfgraph/internal/cli/config"
	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	"github.com/leapstack-labs/wfgraph/internal/loader"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config and logger
// stored on the command context by the root command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// LoadWorkflows loads every definition in the configured input directory.
func (c *CommandContext) LoadWorkflows(cmd *cobra.Command) ([]*workflow.Definition, error) {
	if err := c.Cfg.RequireInput(); err != nil {
		return nil, err
	}
	return loader.LoadAll(cmd.Context(), c.Cfg.InputDir, c.Cfg.LoaderOptions(c.Logger))
}
