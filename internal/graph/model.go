// Package graph turns loaded workflow definitions into a rendering-ready
// graph model: one cluster per definition, trigger and job nodes, and
// reference and dependency edges.
package graph

// NodeKind distinguishes what a node stands for.
type NodeKind string

// Node kinds.
const (
	NodeTrigger NodeKind = "trigger"
	NodeJob     NodeKind = "job"
	// NodeEntry is the synthetic target of reference edges for a callee
	// that does not declare a workflow_call trigger itself.
	NodeEntry NodeKind = "entry"
)

// EdgeKind distinguishes why two nodes are connected.
type EdgeKind string

// Edge kinds.
const (
	// EdgeReference connects a job to the workflow file it reuses.
	EdgeReference EdgeKind = "reference"
	// EdgeDependency connects a job to a job that needs it.
	EdgeDependency EdgeKind = "dependency"
	// EdgeTrigger chains consecutive triggers of one workflow.
	EdgeTrigger EdgeKind = "trigger"
)

// Attrs are renderer attributes (Graphviz names).
type Attrs map[string]string

// Graph is the complete model handed to a renderer.
type Graph struct {
	Name     string     `json:"name"`
	Attrs    Attrs      `json:"attrs,omitempty"`
	Clusters []*Cluster `json:"clusters"`
	Nodes    []*Node    `json:"nodes"`
	Edges    []*Edge    `json:"edges"`

	nodeIndex map[string]*Node
}

// Cluster groups the nodes of one definition.
type Cluster struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Label    string `json:"label"`
	Attrs    Attrs  `json:"attrs,omitempty"`
}

// Node is a trigger, job, or entry node inside a cluster.
type Node struct {
	ID        string   `json:"id"`
	ClusterID string   `json:"cluster"`
	Kind      NodeKind `json:"kind"`
	Label     string   `json:"label"`
	// Reference is the reused workflow filename for delegating job nodes.
	Reference string `json:"reference,omitempty"`
	Attrs     Attrs  `json:"attrs,omitempty"`
}

// Edge connects two node IDs. Dependency edges of hidden definitions point
// at IDs that have no Node in the model.
type Edge struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Kind  EdgeKind `json:"kind"`
	LHead string   `json:"lhead,omitempty"`
	Attrs Attrs    `json:"attrs,omitempty"`
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodeIndex[id]
	return n, ok
}

// NodesIn returns the nodes of a cluster in creation order.
func (g *Graph) NodesIn(clusterID string) []*Node {
	var out []*Node
	for _, n := range g.Nodes {
		if n.ClusterID == clusterID {
			out = append(out, n)
		}
	}
	return out
}

// EdgesOf returns edges of the given kind in creation order.
func (g *Graph) EdgesOf(kind EdgeKind) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) addNode(n *Node) {
	if g.nodeIndex == nil {
		g.nodeIndex = make(map[string]*Node)
	}
	g.nodeIndex[n.ID] = n
	g.Nodes = append(g.Nodes, n)
}
