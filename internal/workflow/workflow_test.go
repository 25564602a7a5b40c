package workflow

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/wfgraph/internal/dag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"build.yml", "build_yml"},
		{"deploy-prod.yaml", "deploy_prod_yaml"},
		{"a.b-c.d", "a_b_c_d"},
		{"plain", "plain"},
		{"spaces stay", "spaces stay"},
		{"quote\"stays", "quote\"stays"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Normalize(got), "Normalize must be idempotent")
		})
	}
}

func TestIdentifiers(t *testing.T) {
	assert.Equal(t, "cluster_build_yml", ClusterID("build.yml"))
	assert.Equal(t, "build_ymlcompile", NodeID("build.yml", "compile"))
	assert.Equal(t, "build_ymlunit_test", NodeID("build.yml", "unit-test"))
	assert.Equal(t, "build_ymlpush", TriggerID("build.yml", "push"))
	assert.Equal(t, "build_ymlworkflow_call", EntryID("build.yml"))
	assert.Equal(t, "ci_yml_lintpull_request", TriggerID("ci.yml-lint", "pull_request"))
}

func TestResolveReference(t *testing.T) {
	tests := []struct {
		name   string
		uses   string
		want   string
		wantOK bool
	}{
		{"local action file", "./actions/foo.yml", "foo.yml", true},
		{"local workflow", "./.github/workflows/build.yml", "build.yml", true},
		{"same directory", "./build.yml", "build.yml", true},
		{"registry workflow", "octo/repo/.github/workflows/build.yml@v1", "", false},
		{"registry action", "actions/checkout@v4", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveReference(&Job{Key: "j", Uses: tt.uses})
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ResolveReference(nil)
	assert.False(t, ok)
}

func TestDefinition_Finalize(t *testing.T) {
	def := &Definition{Filename: "release-flow.yml"}
	require.True(t, def.AddJob(&Job{Key: "build"}))
	require.True(t, def.AddJob(&Job{Key: "publish.npm", Name: "Publish"}))
	assert.False(t, def.AddJob(&Job{Key: "build"}), "duplicate key must be rejected")

	def.Finalize()

	assert.Equal(t, "cluster_release_flow_yml", def.ClusterID)
	require.Len(t, def.Jobs, 2)
	assert.Equal(t, "release_flow_ymlbuild", def.Jobs[0].NodeID)
	assert.Equal(t, "release_flow_ymlpublish_npm", def.Jobs[1].NodeID)

	j, ok := def.Job("publish.npm")
	require.True(t, ok)
	assert.Equal(t, "Publish", j.Label())
	assert.Equal(t, "build", def.Jobs[0].Label())
}

func TestDefinition_Label(t *testing.T) {
	assert.Equal(t, "ci.yml", (&Definition{Filename: "ci.yml"}).Label())
	assert.Equal(t, "CI\n(ci.yml)", (&Definition{Filename: "ci.yml", Name: "CI"}).Label())
}

func TestStages(t *testing.T) {
	def := &Definition{Filename: "ci.yml"}
	def.AddJob(&Job{Key: "lint"})
	def.AddJob(&Job{Key: "test"})
	def.AddJob(&Job{Key: "build", Needs: []string{"lint", "test"}})
	def.AddJob(&Job{Key: "deploy", Needs: []string{"build"}})

	stages, err := Stages(def)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"lint", "test"}, {"build"}, {"deploy"}}, stages)
}

func TestStages_DanglingDependency(t *testing.T) {
	def := &Definition{Filename: "ci.yml"}
	def.AddJob(&Job{Key: "build", Needs: []string{"setup"}})

	_, err := Stages(def)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDanglingDependency))

	var dangling *DanglingDependencyError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "ci.yml", dangling.Definition)
	assert.Equal(t, "build", dangling.Job)
	assert.Equal(t, "setup", dangling.Need)
	assert.Contains(t, err.Error(), "ci.yml")
	assert.Contains(t, err.Error(), "setup")
}

func TestStages_Cycle(t *testing.T) {
	def := &Definition{Filename: "ci.yml"}
	def.AddJob(&Job{Key: "a", Needs: []string{"b"}})
	def.AddJob(&Job{Key: "b", Needs: []string{"a"}})

	_, err := Stages(def)
	var cycleErr *dag.CycleError
	assert.True(t, errors.As(err, &cycleErr))
}

func TestMalformedDefinitionError(t *testing.T) {
	cause := errors.New("jobs must be a mapping")
	err := &MalformedDefinitionError{File: "ci.yml", Line: 4, Err: cause}

	assert.True(t, errors.Is(err, ErrMalformedDefinition))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "ci.yml:4: jobs must be a mapping", err.Error())
	assert.Equal(t, "ci.yml: jobs must be a mapping", (&MalformedDefinitionError{File: "ci.yml", Err: cause}).Error())
}
