package commands

import (
	"context"
	"io"
	"log/slog"

	"github.com/leapstack-labs/wfgraph/internal/cli/config"
	"github.com/leapstack-labs/wfgraph/internal/watch"
)

// Watch generates the diagram, then regenerates it whenever a definition
// file in the input directory changes, until ctx is done. Generation
// errors are logged and watching continues.
func Watch(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	regenerate := func(reason string) {
		logger.Info("regenerating graph", "reason", reason)
		if err := Generate(ctx, cfg, logger, stdout); err != nil {
			logger.Error("generation failed", "error", err)
		}
	}

	opts := watch.Options{
		Extensions: cfg.Extensions,
		OnStart:    func() { regenerate("startup") },
		Logger:     logger,
	}
	if cfg.Out != "" {
		opts.Ignore = []string{cfg.Out}
	}
	return watch.Run(ctx, cfg.InputDir, opts, regenerate)
}
