package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/wfgraph/internal/testutil"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := Execute(context.Background(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	return testutil.WriteWorkflows(t, map[string]string{
		"build.yml":      testutil.BuildWorkflow,
		"deploy.yml":     testutil.DeployWorkflow,
		"standalone.yml": testutil.StandaloneWorkflow,
	})
}

func TestRoot_MissingInput(t *testing.T) {
	t.Chdir(t.TempDir())

	stdout, stderr, err := run(t)
	require.ErrorIs(t, err, workflow.ErrMissingInput)
	assert.Empty(t, stdout)
	assert.Equal(t, "Error: no input workflows directory specified\n", stderr)
}

func TestRoot_RendersDOT(t *testing.T) {
	dir := fixtureDir(t)

	stdout, stderr, err := run(t, "-i", dir)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "cluster_build_yml")
	assert.Contains(t, stdout, "cluster_deploy_yml")
	assert.NotContains(t, stdout, "cluster_standalone_yml")
}

func TestRoot_HiddenDefinitionStillDrawsDependencies(t *testing.T) {
	dir := testutil.WriteWorkflows(t, map[string]string{
		"single.yml": "jobs:\n  a:\n    runs-on: ubuntu-latest\n  b:\n    needs: [a]\n",
	})

	stdout, stderr, err := run(t, "-i", dir)
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.True(t, strings.HasPrefix(stdout, "digraph G {"), stdout)
	assert.NotContains(t, stdout, "error:")
	assert.NotContains(t, stdout, "cluster_single_yml")
	assert.Regexp(t, regexp.MustCompile(`single_ymla\s*->\s*single_ymlb`), stdout)
}

func TestRoot_ShowAllAndJSON(t *testing.T) {
	dir := fixtureDir(t)

	stdout, _, err := run(t, "-i", dir, "--show-all", "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Clusters []struct {
			ID string `json:"id"`
		} `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Clusters, 3)
	assert.Equal(t, "cluster_standalone_yml", doc.Clusters[2].ID)
}

func TestRoot_OutFile(t *testing.T) {
	dir := fixtureDir(t)
	out := filepath.Join(t.TempDir(), "graph.dot")

	stdout, _, err := run(t, "-i", dir, "--out", out)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph")
}

func TestRoot_InputFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("WFGRAPH_INPUT_DIR", fixtureDir(t))

	stdout, _, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, stdout, "cluster_build_yml")
}

func TestRoot_InvalidFormat(t *testing.T) {
	stdout, stderr, err := run(t, "-i", fixtureDir(t), "--format", "svg")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, `unknown format "svg"`)
}

func TestRoot_UnreadableDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")

	stdout, stderr, err := run(t, "-i", missing)
	require.ErrorIs(t, err, workflow.ErrDirectoryUnreadable)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "cannot read workflows directory")
}

func TestListSubcommand(t *testing.T) {
	stdout, _, err := run(t, "list", "-i", fixtureDir(t), "-o", "markdown")
	require.NoError(t, err)
	assert.Contains(t, stdout, "# Workflows (3 total)")
}

func TestVersionSubcommand(t *testing.T) {
	stdout, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wfgraph v"+Version)
}

func TestHelpListsSubcommands(t *testing.T) {
	stdout, _, err := run(t, "--help")
	require.NoError(t, err)
	for _, want := range []string{"list", "stages", "serve", "version", "completion", "--show-all", "--watch"} {
		assert.Contains(t, stdout, want)
	}
}

func TestCompletion(t *testing.T) {
	stdout, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "wfgraph")
}
