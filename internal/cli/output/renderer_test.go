package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		isTTY bool
		want  Mode
	}{
		{"auto on terminal", ModeAuto, true, ModeText},
		{"auto in pipe", ModeAuto, false, ModeMarkdown},
		{"empty defaults to auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text in pipe", ModeText, false, ModeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRendererWithTTY(&bytes.Buffer{}, &bytes.Buffer{}, tt.isTTY, tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestTable_Markdown(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeMarkdown)

	r.Header(1, "Workflows")
	r.Table(table.Row{"FILE", "JOBS"}, []table.Row{{"build.yml", 1}})

	s := out.String()
	assert.Contains(t, s, "# Workflows")
	assert.Contains(t, s, "| FILE")
	assert.Contains(t, s, "build.yml")
}

func TestTable_Text(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, true, ModeText)

	r.Table(table.Row{"FILE", "JOBS"}, []table.Row{{"build.yml", 1}})

	s := out.String()
	assert.Contains(t, s, "FILE")
	assert.Contains(t, s, "build.yml")
	assert.Contains(t, s, "─", "light box style")
}

func TestJSON(t *testing.T) {
	var out bytes.Buffer
	r := NewRendererWithTTY(&out, &bytes.Buffer{}, false, ModeJSON)

	require.NoError(t, r.JSON(map[string]int{"count": 2}))
	assert.Equal(t, "{\n  \"count\": 2\n}\n", out.String())

	out.Reset()
	r.Header(1, "ignored in json")
	assert.Empty(t, out.String())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Summary", FormatHeader(2, "Summary"))
	assert.Equal(t, "# Top", FormatHeader(0, "Top"))
	assert.True(t, strings.HasPrefix(FormatKeyValue("Files", "3"), "- **Files**"))
}

func TestStyles_PlainOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewRendererWithTTY(&buf, &buf, false, ModeText)

	assert.Equal(t, "total", r.Styles().Muted.Render("total"))
}
