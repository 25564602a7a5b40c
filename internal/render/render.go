// Package render serializes a graph model into a diagram document.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/wfgraph/internal/graph"
)

// Format is an output document format.
type Format string

// Supported formats.
const (
	FormatDOT  Format = "dot"
	FormatJSON Format = "json"
)

// Formats lists every supported format, default first.
func Formats() []Format {
	return []Format{FormatDOT, FormatJSON}
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatDOT, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (expected dot or json)", s)
}

// Render writes g to w. The document is produced completely before the
// first byte is written, so a failure never leaves partial output behind.
func Render(w io.Writer, g *graph.Graph, format Format) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatDOT, "":
		err = writeDOT(&buf, g)
	case FormatJSON:
		err = writeJSON(&buf, g)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(buf.Bytes())
	return err
}
