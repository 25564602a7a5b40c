package render

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/awalterschulze/gographviz/ast"
	"github.com/leapstack-labs/wfgraph/internal/graph"
)

// plainID matches identifiers DOT accepts without quoting.
var plainID = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*|-?(\.[0-9]+|[0-9]+(\.[0-9]*)?))$`)

var labelEscaper = strings.NewReplacer(`"`, `\"`, "\n", `\n`)

// writeDOT emits statements in model order: graph attributes, clusters
// with their nodes, bare nodes for edge endpoints outside any cluster,
// then edges. Graphviz lays out in statement order, so nothing is sorted
// except attributes within one statement.
func writeDOT(buf *bytes.Buffer, m *graph.Graph) error {
	doc := &ast.Graph{
		Type: ast.DIGRAPH,
		ID:   ast.ID(quoteID(m.Name)),
	}
	doc.StmtList = appendAttrStmts(doc.StmtList, m.Attrs)

	clusters := make(map[string]*ast.SubGraph, len(m.Clusters))
	for _, c := range m.Clusters {
		attrs := make(graph.Attrs, len(c.Attrs)+1)
		for k, v := range c.Attrs {
			attrs[k] = v
		}
		attrs["label"] = c.Label

		sub := &ast.SubGraph{ID: ast.ID(quoteID(c.ID))}
		sub.StmtList = appendAttrStmts(sub.StmtList, attrs)
		clusters[c.ID] = sub
		doc.StmtList = append(doc.StmtList, sub)
	}

	declared := make(map[string]bool, len(m.Nodes))
	for _, n := range m.Nodes {
		sub, ok := clusters[n.ClusterID]
		if !ok {
			return fmt.Errorf("node %s: unknown cluster %q", n.ID, n.ClusterID)
		}
		attrs := make(graph.Attrs, len(n.Attrs)+1)
		for k, v := range n.Attrs {
			attrs[k] = v
		}
		attrs["label"] = n.Label
		sub.StmtList = append(sub.StmtList, nodeStmt(n.ID, attrs))
		declared[n.ID] = true
	}

	for _, e := range m.Edges {
		for _, id := range []string{e.From, e.To} {
			if !declared[id] {
				doc.StmtList = append(doc.StmtList, nodeStmt(id, nil))
				declared[id] = true
			}
		}
	}

	for _, e := range m.Edges {
		attrs := make(graph.Attrs, len(e.Attrs)+1)
		for k, v := range e.Attrs {
			attrs[k] = v
		}
		if e.LHead != "" {
			attrs["lhead"] = e.LHead
		}
		doc.StmtList = append(doc.StmtList, ast.EdgeStmt{
			Source: ast.MakeNodeID(quoteID(e.From), ""),
			EdgeRHS: ast.EdgeRHS{{
				Op:          ast.DIRECTED,
				Destination: ast.MakeNodeID(quoteID(e.To), ""),
			}},
			Attrs: attrList(attrs),
		})
	}

	buf.WriteString(doc.String())
	return nil
}

func nodeStmt(id string, attrs graph.Attrs) ast.NodeStmt {
	return ast.NodeStmt{
		NodeID: ast.MakeNodeID(quoteID(id), ""),
		Attrs:  attrList(attrs),
	}
}

func appendAttrStmts(list ast.StmtList, attrs graph.Attrs) ast.StmtList {
	for _, key := range sortedKeys(attrs) {
		list = append(list, &ast.Attr{Field: ast.ID(key), Value: ast.ID(quote(attrs[key]))})
	}
	return list
}

func attrList(attrs graph.Attrs) ast.AttrList {
	if len(attrs) == 0 {
		return nil
	}
	list := make(ast.AList, 0, len(attrs))
	for _, key := range sortedKeys(attrs) {
		list = append(list, &ast.Attr{Field: ast.ID(key), Value: ast.ID(quote(attrs[key]))})
	}
	return ast.AttrList{list}
}

func quote(v string) string {
	return `"` + labelEscaper.Replace(v) + `"`
}

// quoteID leaves plain identifiers alone so generated IDs stay readable.
func quoteID(id string) string {
	if plainID.MatchString(id) {
		return id
	}
	return quote(id)
}

func sortedKeys(attrs graph.Attrs) []string {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
