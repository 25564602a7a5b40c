package report

import (
	"errors"
	"fmt"
	"slices"

	"github.com/leapstack-labs/wfgraph/internal/graph"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
)

// Summarize collects per-workflow facts in definition order. Calls and
// called-by only count references that resolve to a loaded definition.
// A definition whose needs are dangling or cyclic fails the summary.
func Summarize(defs []*workflow.Definition, mode graph.Mode) (*ListOutput, error) {
	byFile := workflow.ByFilename(defs)
	included := graph.ComputeIncluded(defs, mode)

	calls := make(map[string][]string, len(defs))
	calledBy := make(map[string][]string, len(defs))
	for _, def := range defs {
		for _, job := range def.Jobs {
			target, ok := job.Reference()
			if !ok {
				continue
			}
			if _, loaded := byFile[target]; !loaded {
				continue
			}
			if !slices.Contains(calls[def.Filename], target) {
				calls[def.Filename] = append(calls[def.Filename], target)
			}
			if !slices.Contains(calledBy[target], def.Filename) {
				calledBy[target] = append(calledBy[target], def.Filename)
			}
		}
	}

	out := &ListOutput{
		Workflows: make([]WorkflowInfo, 0, len(defs)),
		Summary: ListSummary{
			TotalWorkflows: len(defs),
			Mode:           mode.String(),
		},
	}
	for _, def := range defs {
		stages, err := workflow.Stages(def)
		if err != nil {
			return nil, stageError(def, err)
		}
		info := WorkflowInfo{
			File:     def.Filename,
			Name:     def.Name,
			Triggers: nonNil(def.Triggers),
			Jobs:     len(def.Jobs),
			Stages:   len(stages),
			Calls:    nonNil(calls[def.Filename]),
			CalledBy: nonNil(calledBy[def.Filename]),
			Included: included[def.Filename],
		}
		out.Workflows = append(out.Workflows, info)
		out.Summary.TotalJobs += info.Jobs
		if info.Included {
			out.Summary.Included++
		}
	}
	return out, nil
}

// Stages groups the jobs of every definition into stages.
func Stages(defs []*workflow.Definition) (*StagesOutput, error) {
	out := &StagesOutput{Workflows: make([]WorkflowStages, 0, len(defs))}
	for _, def := range defs {
		g, err := workflow.DependencyGraph(def)
		if err != nil {
			return nil, err
		}
		levels, err := g.Levels()
		if err != nil {
			return nil, stageError(def, err)
		}

		ws := WorkflowStages{File: def.Filename, Stages: make([]StageLevel, 0, len(levels))}
		for i, level := range levels {
			sl := StageLevel{Level: i, Jobs: make([]StageJob, 0, len(level))}
			for _, key := range level {
				sl.Jobs = append(sl.Jobs, StageJob{
					Key:    key,
					Needs:  nonNil(g.GetParents(key)),
					UsedBy: nonNil(g.GetChildren(key)),
				})
			}
			ws.Stages = append(ws.Stages, sl)
		}
		out.Workflows = append(out.Workflows, ws)
	}
	return out, nil
}

// stageError prefixes cycle errors with the definition; dangling
// dependency errors already name it.
func stageError(def *workflow.Definition, err error) error {
	var dangling *workflow.DanglingDependencyError
	if errors.As(err, &dangling) {
		return err
	}
	return fmt.Errorf("%s: %w", def.Filename, err)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
