// Package report summarizes loaded workflow definitions for the list and
// stages views and the preview server API.
package report

// ListOutput summarizes every loaded workflow.
type ListOutput struct {
	Workflows []WorkflowInfo `json:"workflows"`
	Summary   ListSummary    `json:"summary"`
}

// WorkflowInfo describes one loaded workflow definition.
type WorkflowInfo struct {
	File     string   `json:"file"`
	Name     string   `json:"name,omitempty"`
	Triggers []string `json:"triggers"`
	Jobs     int      `json:"jobs"`
	Stages   int      `json:"stages"`
	Calls    []string `json:"calls"`
	CalledBy []string `json:"called_by"`
	Included bool     `json:"included"`
}

// ListSummary holds totals for the list command.
type ListSummary struct {
	TotalWorkflows int    `json:"total_workflows"`
	TotalJobs      int    `json:"total_jobs"`
	Included       int    `json:"included"`
	Mode           string `json:"mode"`
}

// StagesOutput lists the job stages of every workflow.
type StagesOutput struct {
	Workflows []WorkflowStages `json:"workflows"`
}

// WorkflowStages lists the job stages of one workflow.
type WorkflowStages struct {
	File   string       `json:"file"`
	Stages []StageLevel `json:"stages"`
}

// StageLevel is one group of jobs whose needs are all satisfied by
// earlier stages.
type StageLevel struct {
	Level int        `json:"level"`
	Jobs  []StageJob `json:"jobs"`
}

// StageJob is a job with its direct needs and dependents.
type StageJob struct {
	Key    string   `json:"key"`
	Needs  []string `json:"needs"`
	UsedBy []string `json:"used_by"`
}
