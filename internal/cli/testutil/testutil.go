// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/wfgraph/internal/cli/config"
	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	wftest "github.com/leapstack-labs/wfgraph/internal/testutil"
	"github.com/spf13/cobra"
)

// TestCommand wraps a command prepared with config and logger in its
// context, with stdout and stderr captured.
type TestCommand struct {
	*cobra.Command
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestCommand returns cmd wired to cfg and a test logger.
func NewTestCommand(t *testing.T, cmd *cobra.Command, cfg *config.Config) *TestCommand {
	t.Helper()

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = config.WithLogger(ctx, wftest.NewTestLogger(t))
	cmd.SetContext(ctx)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	return &TestCommand{Command: cmd, Out: out, ErrOut: errOut}
}

// NewConfig returns a config with CLI defaults reading from inputDir.
func NewConfig(inputDir string, mode output.Mode) *config.Config {
	cfg := config.FromContext(context.Background())
	cfg.InputDir = inputDir
	cfg.OutputFormat = string(mode)
	return cfg
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation: balanced code
// fences and no empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
