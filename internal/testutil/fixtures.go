package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// BuildWorkflow is a reusable workflow with a single job and a push trigger.
const BuildWorkflow = `name: Build
on:
  push:
    branches: [main]
jobs:
  compile:
    runs-on: ubuntu-latest
    steps:
      - run: make
`

// DeployWorkflow reuses build.yml from the same directory.
const DeployWorkflow = `name: Deploy
jobs:
  release:
    uses: ./.github/workflows/build.yml
`

// StandaloneWorkflow has an internal dependency and no cross-file reference.
const StandaloneWorkflow = `on: pull_request
jobs:
  a:
    runs-on: ubuntu-latest
  b:
    needs: [a]
    runs-on: ubuntu-latest
`

// WriteWorkflows writes files (name -> content) into a fresh temp
// directory and returns its path.
func WriteWorkflows(t testing.TB, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return dir
}
