// Package config holds the configuration defaults and config file discovery
// shared by the CLI and anything else that needs to locate a wfgraph project.
package config

// Default configuration values.
const (
	DefaultFormat      = "dot"
	DefaultOutput      = "auto" // TTY=text, non-TTY=markdown
	DefaultConcurrency = 0      // GOMAXPROCS
	DefaultAddr        = "localhost:8080"
	EnvPrefix          = "WFGRAPH_"
)

// DefaultExtensions returns the definition file extensions read by default.
func DefaultExtensions() []string {
	return []string{".yml", ".yaml"}
}
