package graph

import (
	"github.com/leapstack-labs/wfgraph/internal/workflow"
)

// Options controls what Build draws.
type Options struct {
	Mode Mode
	// DrawReferenceEdges draws an edge from each delegating job to the
	// entry node of the workflow it reuses.
	DrawReferenceEdges bool
	// LinkTriggers chains the triggers of a workflow with invisible edges
	// so the layout stacks them.
	LinkTriggers bool
}

// DefaultOptions returns the options the CLI starts from.
func DefaultOptions() Options {
	return Options{
		Mode:               ShowConnected,
		DrawReferenceEdges: true,
	}
}

// Style constants shared by the phases.
const (
	nodeWidth        = "3"
	triggerFill      = "lightyellow"
	jobFill          = "#ffffff99"
	referenceColor   = "#777777"
	styleFilled      = "filled"
	styleDelegating  = "filled,dashed"
	styleDashed      = "dashed"
	styleInvisible   = "invis"
	clusterMargin    = "20"
	clusterFontSize  = "18"
	graphRankSep     = "3"
	graphMargin      = "30"
	defaultGraphName = "G"
)

// Build produces the graph model for defs. Definitions must have been
// finalized by the loader. The phases run in a fixed order because later
// ones refer to identifiers created by earlier ones.
func Build(defs []*workflow.Definition, opts Options) (*Graph, error) {
	b := &builder{
		defs:     defs,
		opts:     opts,
		byFile:   workflow.ByFilename(defs),
		included: ComputeIncluded(defs, opts.Mode),
		g: &Graph{
			Name: defaultGraphName,
			Attrs: Attrs{
				"layout":   "dot",
				"rankdir":  "LR",
				"compound": "true",
				"ranksep":  graphRankSep,
				"margin":   graphMargin,
			},
		},
	}

	b.addClusters()
	b.addTriggers()
	b.addJobs()
	if opts.DrawReferenceEdges {
		b.addReferenceEdges()
	}
	if err := b.addDependencyEdges(); err != nil {
		return nil, err
	}
	return b.g, nil
}

type builder struct {
	defs     []*workflow.Definition
	opts     Options
	byFile   map[string]*workflow.Definition
	included map[string]bool
	g        *Graph
}

func (b *builder) visible() []*workflow.Definition {
	out := make([]*workflow.Definition, 0, len(b.included))
	for _, d := range b.defs {
		if b.included[d.Filename] {
			out = append(out, d)
		}
	}
	return out
}

// tryAddNode keeps the first node created for an ID.
func (b *builder) tryAddNode(n *Node) bool {
	if _, exists := b.g.Node(n.ID); exists {
		return false
	}
	b.g.addNode(n)
	return true
}

func (b *builder) addClusters() {
	for _, d := range b.visible() {
		b.g.Clusters = append(b.g.Clusters, &Cluster{
			ID:       d.ClusterID,
			Filename: d.Filename,
			Label:    d.Label(),
			Attrs: Attrs{
				"style":    styleFilled,
				"margin":   clusterMargin,
				"fontsize": clusterFontSize,
			},
		})
	}
}

func triggerAttrs() Attrs {
	return Attrs{
		"shape":     "diamond",
		"style":     styleFilled,
		"fillcolor": triggerFill,
		"width":     nodeWidth,
	}
}

func (b *builder) addTriggers() {
	for _, d := range b.visible() {
		var ids []string
		for _, trigger := range d.Triggers {
			id := workflow.TriggerID(d.Filename, trigger)
			if !b.tryAddNode(&Node{
				ID:        id,
				ClusterID: d.ClusterID,
				Kind:      NodeTrigger,
				Label:     trigger,
				Attrs:     triggerAttrs(),
			}) {
				continue
			}
			ids = append(ids, id)
		}

		if !b.opts.LinkTriggers {
			continue
		}
		for i := 0; i+1 < len(ids); i++ {
			b.g.Edges = append(b.g.Edges, &Edge{
				From:  ids[i],
				To:    ids[i+1],
				Kind:  EdgeTrigger,
				Attrs: Attrs{"style": styleInvisible},
			})
		}
	}
}

func (b *builder) addJobs() {
	for _, d := range b.visible() {
		for _, j := range d.Jobs {
			n := &Node{
				ID:        j.NodeID,
				ClusterID: d.ClusterID,
				Kind:      NodeJob,
				Label:     j.Label(),
				Attrs: Attrs{
					"width":     nodeWidth,
					"fillcolor": jobFill,
					"style":     styleFilled,
				},
			}
			if ref, ok := j.Reference(); ok {
				n.Reference = ref
				n.Label += "\n(" + ref + ")"
				n.Attrs["style"] = styleDelegating
			}
			b.tryAddNode(n)
		}
	}
}

func (b *builder) addReferenceEdges() {
	for _, d := range b.visible() {
		for _, j := range d.Jobs {
			ref, ok := j.Reference()
			if !ok {
				continue
			}
			callee, found := b.byFile[ref]
			if !found || !b.included[callee.Filename] {
				continue
			}

			entry := workflow.EntryID(callee.Filename)
			b.tryAddNode(&Node{
				ID:        entry,
				ClusterID: callee.ClusterID,
				Kind:      NodeEntry,
				Label:     workflow.EntryTrigger,
				Attrs:     triggerAttrs(),
			})

			b.g.Edges = append(b.g.Edges, &Edge{
				From:  j.NodeID,
				To:    entry,
				Kind:  EdgeReference,
				LHead: callee.ClusterID,
				Attrs: Attrs{
					"style":      styleDashed,
					"constraint": "true",
					"color":      referenceColor,
				},
			})
		}
	}
}

// addDependencyEdges covers every definition, drawn or not: `needs` edges
// are local to a file and do not depend on the inclusion filter.
func (b *builder) addDependencyEdges() error {
	for _, d := range b.defs {
		if _, err := workflow.DependencyGraph(d); err != nil {
			return err
		}
		for _, j := range d.Jobs {
			for _, need := range j.Needs {
				dep, _ := d.Job(need)
				b.g.Edges = append(b.g.Edges, &Edge{
					From: dep.NodeID,
					To:   j.NodeID,
					Kind: EdgeDependency,
				})
			}
		}
	}
	return nil
}
