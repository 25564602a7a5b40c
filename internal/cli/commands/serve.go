package commands

import (
	"github.com/leapstack-labs/wfgraph/internal/server"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live preview of the workflow diagram",
		Long: `Start a local HTTP server with a live preview of the diagram.

The page shows the workflow table and the DOT source, and updates in
place whenever the diagram is regenerated. With --watch the server
regenerates on every change to a definition file.

Endpoints:
  /               Preview page
  /graph.dot      DOT document
  /graph.json     JSON document
  /api/workflows  Workflow summary
  /api/refresh    Regenerate now (POST)
  /healthz        Status of the last generation`,
		Example: `  # Preview on the default address
  wfgraph serve -i .github/workflows

  # Regenerate on change, listen on all interfaces
  wfgraph serve -i .github/workflows --watch --addr :9000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg
			if err := cfg.RequireInput(); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			srv := server.New(server.Config{
				InputDir: cfg.InputDir,
				Addr:     cfg.Addr,
				Watch:    cfg.Watch,
				Loader:   cfg.LoaderOptions(cmdCtx.Logger),
				Graph:    cfg.GraphOptions(),
				Logger:   cmdCtx.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, localhost:8080)")

	return cmd
}
