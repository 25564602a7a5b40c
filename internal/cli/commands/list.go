package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	"github.com/leapstack-labs/wfgraph/internal/report"
	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all workflows and how they reference each other",
		Long: `List every workflow definition in the input directory with its triggers,
job count, number of job stages, the workflows it calls, the workflows
calling it, and whether it would appear in the diagram.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List workflows (auto-detect output format)
  wfgraph list -i .github/workflows

  # List workflows as JSON
  wfgraph list -i .github/workflows --output json

  # Mark every workflow as included
  wfgraph list -i .github/workflows --show-all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}

	return cmd
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	defs, err := cmdCtx.LoadWorkflows(cmd)
	if err != nil {
		return err
	}

	mode := cmdCtx.Cfg.GraphOptions().Mode
	listOutput, err := report.Summarize(defs, mode)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(listOutput)
	case output.ModeMarkdown:
		listMarkdown(r, listOutput)
	default:
		listText(r, listOutput)
	}
	return nil
}

func listRows(list *report.ListOutput) (table.Row, []table.Row) {
	header := table.Row{"FILE", "NAME", "TRIGGERS", "JOBS", "STAGES", "CALLS", "CALLED BY", "INCLUDED"}
	rows := make([]table.Row, 0, len(list.Workflows))
	for _, w := range list.Workflows {
		included := "no"
		if w.Included {
			included = "yes"
		}
		rows = append(rows, table.Row{
			w.File,
			w.Name,
			strings.Join(w.Triggers, ", "),
			w.Jobs,
			w.Stages,
			strings.Join(w.Calls, ", "),
			strings.Join(w.CalledBy, ", "),
			included,
		})
	}
	return header, rows
}

// listText outputs workflows as a styled table.
func listText(r *output.Renderer, list *report.ListOutput) {
	styles := r.Styles()

	r.Header(1, fmt.Sprintf("Workflows (%d total)", list.Summary.TotalWorkflows))
	r.Table(listRows(list))
	r.Println(styles.Muted.Render(fmt.Sprintf("Total: %d jobs, %d of %d workflows included (%s)",
		list.Summary.TotalJobs, list.Summary.Included, list.Summary.TotalWorkflows, list.Summary.Mode)))
	if hidden := list.Summary.TotalWorkflows - list.Summary.Included; hidden > 0 {
		r.Println(styles.Warn.Render(fmt.Sprintf("%d hidden, use --show-all to draw every workflow", hidden)))
	}
}

// listMarkdown outputs workflows as a markdown table with a summary.
func listMarkdown(r *output.Renderer, list *report.ListOutput) {
	r.Header(1, fmt.Sprintf("Workflows (%d total)", list.Summary.TotalWorkflows))
	r.Table(listRows(list))
	r.Println("")
	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Total Jobs", fmt.Sprintf("%d", list.Summary.TotalJobs)))
	r.Println(output.FormatKeyValue("Included", fmt.Sprintf("%d", list.Summary.Included)))
	r.Println(output.FormatKeyValue("Mode", list.Summary.Mode))
}
