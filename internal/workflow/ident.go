package workflow

import "strings"

var identReplacer = strings.NewReplacer(".", "_", "-", "_")

// Normalize maps a raw name to a graph identifier by replacing every '.'
// and '-' with '_'. No other character is touched.
//
// Composite identifiers normalize the concatenation of their raw parts,
// except for the literal "cluster_" prefix.
func Normalize(name string) string {
	return identReplacer.Replace(name)
}

// ClusterID is the identifier of the cluster drawn for a definition file.
func ClusterID(filename string) string {
	return "cluster_" + Normalize(filename)
}

// NodeID is the identifier of a job node.
func NodeID(filename, jobKey string) string {
	return Normalize(filename + jobKey)
}

// TriggerID is the identifier of a trigger node.
func TriggerID(filename, trigger string) string {
	return Normalize(filename + trigger)
}

// EntryID is the node other definitions point at when they reuse filename.
func EntryID(filename string) string {
	return TriggerID(filename, EntryTrigger)
}
