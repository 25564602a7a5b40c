package graph

import (
	"fmt"

	"github.com/leapstack-labs/wfgraph/internal/workflow"
)

// Mode selects which definitions are drawn.
type Mode int

const (
	// ShowConnected draws only definitions that call or are called by
	// another loaded definition.
	ShowConnected Mode = iota
	// ShowAll draws every loaded definition.
	ShowAll
)

func (m Mode) String() string {
	switch m {
	case ShowConnected:
		return "show-only-connected"
	case ShowAll:
		return "show-all"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ComputeIncluded returns the filenames of the definitions to draw.
func ComputeIncluded(defs []*workflow.Definition, mode Mode) map[string]bool {
	included := make(map[string]bool, len(defs))
	if mode == ShowAll {
		for _, d := range defs {
			included[d.Filename] = true
		}
		return included
	}

	loaded := workflow.ByFilename(defs)
	for _, d := range defs {
		for _, j := range d.Jobs {
			ref, ok := j.Reference()
			if !ok {
				continue
			}
			if callee, found := loaded[ref]; found {
				included[callee.Filename] = true
				included[d.Filename] = true
			}
		}
	}
	return included
}
