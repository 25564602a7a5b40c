package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/wfgraph/internal/graph"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.StringP("input", "i", "", "")
	fs.Bool("show-all", false, "")
	fs.Bool("reference-edges", true, "")
	fs.Bool("link-triggers", false, "")
	fs.String("format", DefaultFormat, "")
	fs.StringSlice("ext", nil, "")
	fs.Int("concurrency", 0, "")
	fs.StringP("output", "o", DefaultOutput, "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "wfgraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Empty(t, cfg.InputDir)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.ShowAll)
	assert.True(t, cfg.ReferenceEdges)
	assert.Equal(t, "dot", cfg.Format)
	assert.Equal(t, "auto", cfg.OutputFormat)
	assert.Equal(t, []string{".yml", ".yaml"}, cfg.Extensions)
	assert.Equal(t, "localhost:8080", cfg.Addr)
	assert.ErrorIs(t, cfg.RequireInput(), workflow.ErrMissingInput)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, "input_dir: workflows\nshow_all: true\nreference_edges: false\nformat: json\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "workflows"), cfg.InputDir,
		"relative input_dir resolves against the config file")
	assert.True(t, cfg.ShowAll)
	assert.False(t, cfg.ReferenceEdges)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadConfig_DiscoversFileFromWorkingDirectory(t *testing.T) {
	path := writeConfig(t, "link_triggers: true\n")
	nested := filepath.Join(filepath.Dir(path), ".github", "workflows")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.True(t, cfg.LinkTriggers)
	assert.Equal(t, "wfgraph.yaml", filepath.Base(cfg.ConfigFile))
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "format: json\nconcurrency: 2\nshow_all: false\n")
	t.Setenv("WFGRAPH_CONCURRENCY", "4")
	t.Setenv("WFGRAPH_SHOW_ALL", "true")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--format", "dot", "-i", "/tmp/flows", "--ext", ".yaml"}))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "dot", cfg.Format, "flag beats config file")
	assert.Equal(t, 4, cfg.Concurrency, "env beats config file")
	assert.True(t, cfg.ShowAll, "env beats config file")
	assert.Equal(t, "/tmp/flows", cfg.InputDir, "--input maps onto input_dir")
	assert.Equal(t, []string{".yaml"}, cfg.Extensions, "--ext maps onto extensions")
}

func TestLoadConfig_UnchangedFlagsDoNotOverride(t *testing.T) {
	path := writeConfig(t, "reference_edges: false\n")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := LoadConfig(path, fs)
	require.NoError(t, err)
	assert.False(t, cfg.ReferenceEdges)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"unknown format", "format: svg\n", "unknown format"},
		{"unknown output", "output: html\n", "unknown output mode"},
		{"negative concurrency", "concurrency: -1\n", "concurrency must not be negative"},
		{"broken yaml", "format: [dot\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGraphOptions(t *testing.T) {
	cfg := &Config{ShowAll: true, ReferenceEdges: false, LinkTriggers: true}
	opts := cfg.GraphOptions()

	assert.Equal(t, graph.ShowAll, opts.Mode)
	assert.False(t, opts.DrawReferenceEdges)
	assert.True(t, opts.LinkTriggers)

	opts = (&Config{ReferenceEdges: true}).GraphOptions()
	assert.Equal(t, graph.ShowConnected, opts.Mode)
	assert.True(t, opts.DrawReferenceEdges)
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "falls back to a discard logger")

	logger := NewLogger(os.Stderr, true)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}

func TestFromContext(t *testing.T) {
	cfg := FromContext(context.Background())
	assert.True(t, cfg.ReferenceEdges)
	assert.Equal(t, DefaultFormat, cfg.Format)

	stored := &Config{InputDir: "/flows"}
	assert.Same(t, stored, FromContext(WithConfig(context.Background(), stored)))
}
