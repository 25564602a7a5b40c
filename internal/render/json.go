package render

import (
	"bytes"
	"encoding/json"

	"github.com/leapstack-labs/wfgraph/internal/graph"
)

func writeJSON(buf *bytes.Buffer, g *graph.Graph) error {
	enc := json.NewEncoder(buf)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
