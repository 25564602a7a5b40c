package server

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

const datastarScript = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// ContentID is the id of the element replaced by update streams.
const ContentID = "content"

// Page renders the full preview page. The page opens the update stream on
// load, which keeps the content element current.
func Page(snap *Snapshot) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>wfgraph</title>
<script type="module" src="`+datastarScript+`"></script>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.5rem; text-align: left; }
pre { background: #f6f8fa; padding: 1rem; overflow: auto; }
.error { color: #b00020; }
.muted { color: #666; }
</style>
</head>
<body data-init="@get('/updates')">
<h1>wfgraph</h1>
<p class="muted"><a href="/graph.dot">graph.dot</a> · <a href="/graph.json">graph.json</a></p>
`); err != nil {
			return err
		}
		if err := Content(snap).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}

// Content renders the status line, the workflow table and the DOT source.
func Content(snap *Snapshot) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="` + ContentID + `">`)

		switch {
		case snap == nil || (!snap.Ready() && snap.Err == nil):
			b.WriteString(`<p class="muted">Waiting for the first generation.</p>`)
		case snap.Err != nil:
			b.WriteString(`<p class="error">Generation failed: ` + templ.EscapeString(snap.Err.Error()) + `</p>`)
		default:
			fmt.Fprintf(&b, `<p class="muted">Generation %s at %s</p>`,
				templ.EscapeString(snap.Generation), snap.GeneratedAt.Format(time.RFC3339))
		}

		if snap.Ready() {
			writeWorkflowTable(&b, snap)
			b.WriteString(`<pre id="dot">` + templ.EscapeString(string(snap.DOT)) + `</pre>`)
		}

		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeWorkflowTable(b *strings.Builder, snap *Snapshot) {
	if snap.Workflows == nil {
		return
	}
	b.WriteString(`<table id="workflows"><thead><tr>`)
	for _, h := range []string{"File", "Name", "Jobs", "Calls", "Called by", "Included"} {
		b.WriteString(`<th>` + h + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)
	for _, wf := range snap.Workflows.Workflows {
		included := "no"
		if wf.Included {
			included = "yes"
		}
		cells := []string{
			wf.File,
			wf.Name,
			strconv.Itoa(wf.Jobs),
			strings.Join(wf.Calls, ", "),
			strings.Join(wf.CalledBy, ", "),
			included,
		}
		b.WriteString(`<tr>`)
		for _, c := range cells {
			b.WriteString(`<td>` + templ.EscapeString(c) + `</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)
}
