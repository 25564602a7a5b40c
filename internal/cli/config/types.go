// Package config provides configuration management for the wfgraph CLI.
//
// Values are layered, highest priority first: command-line flags,
// WFGRAPH_* environment variables, the wfgraph.yaml config file, defaults.
package config

import (
	"log/slog"

	intconfig "github.com/leapstack-labs/wfgraph/internal/config"
	"github.com/leapstack-labs/wfgraph/internal/graph"
	"github.com/leapstack-labs/wfgraph/internal/loader"
)

// Config holds all CLI configuration options.
type Config struct {
	InputDir       string   `koanf:"input_dir"`
	ShowAll        bool     `koanf:"show_all"`
	ReferenceEdges bool     `koanf:"reference_edges"`
	LinkTriggers   bool     `koanf:"link_triggers"`
	Format         string   `koanf:"format"`
	Out            string   `koanf:"out"`
	Watch          bool     `koanf:"watch"`
	Extensions     []string `koanf:"extensions"`
	Concurrency    int      `koanf:"concurrency"`
	Verbose        bool     `koanf:"verbose"`
	OutputFormat   string   `koanf:"output"`
	Addr           string   `koanf:"addr"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultFormat      = intconfig.DefaultFormat
	DefaultOutput      = intconfig.DefaultOutput
	DefaultConcurrency = intconfig.DefaultConcurrency
	DefaultAddr        = intconfig.DefaultAddr
)

// GraphOptions maps the drawing switches onto builder options.
func (c *Config) GraphOptions() graph.Options {
	opts := graph.DefaultOptions()
	if c.ShowAll {
		opts.Mode = graph.ShowAll
	}
	opts.DrawReferenceEdges = c.ReferenceEdges
	opts.LinkTriggers = c.LinkTriggers
	return opts
}

// LoaderOptions maps the input settings onto loader options.
func (c *Config) LoaderOptions(logger *slog.Logger) loader.Options {
	return loader.Options{
		Extensions:  c.Extensions,
		Concurrency: c.Concurrency,
		Logger:      logger,
	}
}
