package config

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	"github.com/leapstack-labs/wfgraph/internal/render"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
)

// Validate checks if the configuration is valid.
// The input directory is not required here so that help and version
// commands work without one; see RequireInput.
func (c *Config) Validate() error {
	if _, err := render.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.OutputFormat != "" && !slices.Contains(output.Modes(), c.OutputFormat) {
		return fmt.Errorf("unknown output mode %q (expected one of %v)", c.OutputFormat, output.Modes())
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency)
	}
	return nil
}

// RequireInput reports ErrMissingInput when no input directory is set.
func (c *Config) RequireInput() error {
	if c.InputDir == "" {
		return workflow.ErrMissingInput
	}
	return nil
}
