package commands

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/wfgraph/internal/cli/config"
	"github.com/leapstack-labs/wfgraph/internal/graph"
	"github.com/leapstack-labs/wfgraph/internal/loader"
	"github.com/leapstack-labs/wfgraph/internal/render"
	"github.com/spf13/cobra"
)

// RunGraph generates the workflow diagram, once or continuously when
// watch mode is on.
func RunGraph(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	if err := cfg.RequireInput(); err != nil {
		return err
	}
	if cfg.Watch {
		return Watch(cmd.Context(), cfg, cmdCtx.Logger, cmd.OutOrStdout())
	}
	return Generate(cmd.Context(), cfg, cmdCtx.Logger, cmd.OutOrStdout())
}

// Generate loads the input directory, builds the graph and renders it.
// The document goes to cfg.Out when set, otherwise to stdout. Nothing is
// written unless every step succeeds.
func Generate(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	if err := cfg.RequireInput(); err != nil {
		return err
	}
	format, err := render.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	defs, err := loader.LoadAll(ctx, cfg.InputDir, cfg.LoaderOptions(logger))
	if err != nil {
		return err
	}

	g, err := graph.Build(defs, cfg.GraphOptions())
	if err != nil {
		return err
	}
	logger.Debug("graph built",
		"clusters", len(g.Clusters),
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"mode", cfg.GraphOptions().Mode.String())

	var buf bytes.Buffer
	if err := render.Render(&buf, g, format); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	if cfg.Out == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(cfg.Out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.Out, err)
	}
	logger.Info("graph written", "file", cfg.Out, "format", string(format), "bytes", buf.Len())
	return nil
}
