package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/wfgraph/internal/cli/output"
	"github.com/leapstack-labs/wfgraph/internal/report"
	"github.com/spf13/cobra"
)

// NewStagesCommand creates the stages command.
func NewStagesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "Show the job stages of each workflow",
		Long: `Display the jobs of every workflow grouped by stage.

A stage holds the jobs whose needs are all satisfied by earlier stages,
so jobs in the same stage can run in parallel. A dependency cycle or a
need naming an unknown job is reported as an error.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format (agent-friendly)`,
		Example: `  # Show the stages
  wfgraph stages -i .github/workflows

  # Output as JSON
  wfgraph stages -i .github/workflows --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStages(cmd)
		},
	}

	return cmd
}

func runStages(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	defs, err := cmdCtx.LoadWorkflows(cmd)
	if err != nil {
		return err
	}

	stagesOutput, err := report.Stages(defs)
	if err != nil {
		return err
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(stagesOutput)
	case output.ModeMarkdown:
		stagesMarkdown(r, stagesOutput)
	default:
		stagesText(r, stagesOutput)
	}
	return nil
}

// stagesText outputs stages in styled text format.
func stagesText(r *output.Renderer, stages *report.StagesOutput) {
	styles := r.Styles()

	r.Header(1, "Job Stages")
	for _, w := range stages.Workflows {
		r.Println(styles.Header2.Render(w.File))
		if len(w.Stages) == 0 {
			r.Printf("  %s\n", styles.Muted.Render("no jobs"))
		}
		for _, level := range w.Stages {
			r.Printf("  %s\n", styles.Good.Render(fmt.Sprintf("Stage %d:", level.Level)))
			for _, job := range level.Jobs {
				r.Printf("    %s\n", job.Key)
				if len(job.Needs) > 0 {
					r.Printf("      %s %s\n", styles.Muted.Render("needs:"), strings.Join(job.Needs, ", "))
				}
			}
		}
		r.Println("")
	}
}

// stagesMarkdown outputs stages in markdown format.
func stagesMarkdown(r *output.Renderer, stages *report.StagesOutput) {
	r.Header(1, "Job Stages")
	for _, w := range stages.Workflows {
		r.Println(output.FormatHeader(2, w.File))
		r.Println("")
		for _, level := range w.Stages {
			r.Printf("- Stage %d\n", level.Level)
			for _, job := range level.Jobs {
				if len(job.Needs) > 0 {
					r.Printf("  - %s (needs: %s)\n", job.Key, strings.Join(job.Needs, ", "))
				} else {
					r.Printf("  - %s\n", job.Key)
				}
			}
		}
		r.Println("")
	}
}
