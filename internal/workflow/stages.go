package workflow

import (
	"errors"

	"github.com/leapstack-labs/wfgraph/internal/dag"
)

// DependencyGraph builds the `needs` graph of a definition keyed by job key.
// A need naming a job that does not exist is a DanglingDependencyError.
func DependencyGraph(def *Definition) (*dag.Graph, error) {
	g := dag.NewGraph()
	for _, j := range def.Jobs {
		g.AddNode(j.Key)
	}
	for _, j := range def.Jobs {
		for _, need := range j.Needs {
			if err := g.AddEdge(need, j.Key); err != nil {
				if errors.Is(err, dag.ErrUnknownNode) {
					return nil, &DanglingDependencyError{Definition: def.Filename, Job: j.Key, Need: need}
				}
				return nil, err
			}
		}
	}
	return g, nil
}

// Stages groups job keys into the order a runner could start them in.
func Stages(def *Definition) ([][]string, error) {
	g, err := DependencyGraph(def)
	if err != nil {
		return nil, err
	}
	return g.Levels()
}
