// Package workflow holds the typed records for CI workflow definition files
// and the pure helpers that derive graph identifiers from them.
package workflow

// EntryTrigger is the trigger type a reusable workflow declares to be callable
// from other workflows. Cross-file reference edges target its node.
const EntryTrigger = "workflow_call"

// Definition is one workflow file.
type Definition struct {
	// Filename is the base name of the file and is unique within a run.
	Filename string
	// Name is the optional human title (`name:`).
	Name string
	// Triggers lists trigger type names in declaration order.
	Triggers []string
	// Jobs in declaration order.
	Jobs []*Job
	// ClusterID is derived by Finalize.
	ClusterID string

	index map[string]*Job
}

// Job is a unit of work declared under `jobs:`.
type Job struct {
	Key   string
	Name  string
	Uses  string
	Needs []string
	// NodeID is derived by Finalize and unique across the whole graph.
	NodeID string
}

// Label returns the display name, falling back to the job key.
func (j *Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Key
}

// Reference returns the filename of the local workflow this job reuses.
func (j *Job) Reference() (string, bool) {
	return ResolveReference(j)
}

// AddJob appends a job. It reports false if the key is already taken.
func (d *Definition) AddJob(job *Job) bool {
	if d.index == nil {
		d.index = make(map[string]*Job)
	}
	if _, exists := d.index[job.Key]; exists {
		return false
	}
	d.index[job.Key] = job
	d.Jobs = append(d.Jobs, job)
	return true
}

// Job looks up a job by key.
func (d *Definition) Job(key string) (*Job, bool) {
	j, ok := d.index[key]
	return j, ok
}

// Label is the cluster caption: the title over the filename, or the
// filename alone for unnamed definitions.
func (d *Definition) Label() string {
	if d.Name == "" {
		return d.Filename
	}
	return d.Name + "\n(" + d.Filename + ")"
}

// Finalize derives ClusterID and every job's NodeID. The loader calls it
// once; a Definition is read-only afterwards.
func (d *Definition) Finalize() {
	d.ClusterID = ClusterID(d.Filename)
	for _, j := range d.Jobs {
		j.NodeID = NodeID(d.Filename, j.Key)
	}
}

// ByFilename indexes definitions by filename.
func ByFilename(defs []*Definition) map[string]*Definition {
	m := make(map[string]*Definition, len(defs))
	for _, d := range defs {
		m[d.Filename] = d
	}
	return m
}
