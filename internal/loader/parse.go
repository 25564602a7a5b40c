package loader

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/wfgraph/internal/workflow"
	"gopkg.in/yaml.v3"
)

// Parse decodes one workflow file into a Definition. The generic YAML tree
// never leaves this function: every field the graph needs is validated
// into a typed value, unknown keys are ignored.
func Parse(filename string, content []byte) (*workflow.Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, malformed(filename, 0, fmt.Errorf("invalid YAML: %w", err))
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, malformed(filename, 0, errors.New("file is empty"))
	}

	root := deref(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, malformed(filename, root.Line, errors.New("top level must be a mapping"))
	}

	def := &workflow.Definition{Filename: filename}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], deref(root.Content[i+1])
		switch key.Value {
		case "name":
			name, err := scalar(value, "name")
			if err != nil {
				return nil, malformed(filename, value.Line, err)
			}
			def.Name = name
		case "on":
			triggers, err := parseTriggers(value)
			if err != nil {
				return nil, malformed(filename, value.Line, err)
			}
			def.Triggers = triggers
		case "jobs":
			if err := parseJobs(def, value); err != nil {
				return nil, err
			}
		}
	}
	return def, nil
}

// parseTriggers accepts the three shapes of `on:`: a single event name,
// a list of names, or a mapping keyed by event name.
func parseTriggers(n *yaml.Node) ([]string, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		return []string{n.Value}, nil
	case n.Kind == yaml.SequenceNode:
		return scalarList(n, "on")
	case n.Kind == yaml.MappingNode:
		triggers := make([]string, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			triggers = append(triggers, n.Content[i].Value)
		}
		return triggers, nil
	default:
		return nil, errors.New("on must be an event name, a list or a mapping")
	}
}

func parseJobs(def *workflow.Definition, n *yaml.Node) error {
	if isNull(n) {
		return nil
	}
	if n.Kind != yaml.MappingNode {
		return malformed(def.Filename, n.Line, errors.New("jobs must be a mapping"))
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, body := n.Content[i], deref(n.Content[i+1])
		job, err := parseJob(keyNode.Value, body)
		if err != nil {
			return malformed(def.Filename, body.Line, err)
		}
		if !def.AddJob(job) {
			return malformed(def.Filename, keyNode.Line, fmt.Errorf("duplicate job %q", keyNode.Value))
		}
	}
	return nil
}

func parseJob(key string, n *yaml.Node) (*workflow.Job, error) {
	job := &workflow.Job{Key: key}
	if isNull(n) {
		return job, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("job %q must be a mapping", key)
	}

	for i := 0; i+1 < len(n.Content); i += 2 {
		field, value := n.Content[i].Value, deref(n.Content[i+1])
		var err error
		switch field {
		case "name":
			job.Name, err = scalar(value, "jobs."+key+".name")
		case "uses":
			job.Uses, err = scalar(value, "jobs."+key+".uses")
		case "needs":
			job.Needs, err = parseNeeds(value, "jobs."+key+".needs")
		}
		if err != nil {
			return nil, err
		}
	}
	return job, nil
}

// parseNeeds treats a scalar exactly like a one-element list.
func parseNeeds(n *yaml.Node, path string) ([]string, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		return []string{n.Value}, nil
	case n.Kind == yaml.SequenceNode:
		return scalarList(n, path)
	default:
		return nil, fmt.Errorf("%s must be a job id or a list of job ids", path)
	}
}

func scalar(n *yaml.Node, path string) (string, error) {
	if isNull(n) {
		return "", nil
	}
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%s must be a scalar", path)
	}
	return n.Value, nil
}

func scalarList(n *yaml.Node, path string) ([]string, error) {
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		item = deref(item)
		if item.Kind != yaml.ScalarNode || isNull(item) {
			return nil, fmt.Errorf("%s entries must be scalars", path)
		}
		out = append(out, item.Value)
	}
	return out, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func malformed(file string, line int, err error) error {
	var already *workflow.MalformedDefinitionError
	if errors.As(err, &already) {
		return err
	}
	return &workflow.MalformedDefinitionError{File: file, Line: line, Err: err}
}
