package workflow

import "strings"

// localRefMarker distinguishes a local file reference from a registry one
// ("owner/repo/.github/workflows/x.yml@v1").
const localRefMarker = "./"

// ResolveReference returns the filename of the local workflow a job reuses
// through `uses:`. Whether that file was loaded is not checked here.
func ResolveReference(job *Job) (string, bool) {
	if job == nil || !strings.Contains(job.Uses, localRefMarker) {
		return "", false
	}
	return job.Uses[strings.LastIndex(job.Uses, "/")+1:], true
}
