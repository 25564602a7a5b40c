// Package loader reads a directory of CI workflow files into typed
// definitions.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/leapstack-labs/wfgraph/internal/config"
	"github.com/leapstack-labs/wfgraph/internal/workflow"
	"golang.org/x/sync/errgroup"
)

// Options configures LoadAll.
type Options struct {
	// Extensions selects definition files, compared case-insensitively.
	// Empty means config.DefaultExtensions().
	Extensions []string
	// Concurrency bounds parallel file parsing. Zero means GOMAXPROCS.
	Concurrency int
	Logger      *slog.Logger
}

// DirectoryError reports that the input directory could not be listed.
type DirectoryError struct {
	Dir string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("cannot read workflows directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Is matches workflow.ErrDirectoryUnreadable.
func (e *DirectoryError) Is(target error) bool {
	return target == workflow.ErrDirectoryUnreadable
}

// LoadAll parses every definition file in dir. The result follows the
// directory listing order whatever the concurrency. Any unreadable or
// malformed file fails the whole load; when several files are bad the
// first one in listing order is reported.
func LoadAll(ctx context.Context, dir string, opts Options) ([]*workflow.Definition, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &DirectoryError{Dir: dir, Err: err}
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = config.DefaultExtensions()
	}

	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !MatchesExtension(entry.Name(), exts) {
			logger.Debug("skipping file", "file", entry.Name())
			continue
		}
		files = append(files, entry.Name())
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	defs := make([]*workflow.Definition, len(files))
	errs := make([]error, len(files))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, name := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			defs[i], errs[i] = loadFile(dir, name)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(defs))
	for _, def := range defs {
		if seen[def.Filename] {
			return nil, fmt.Errorf("%s: %w", def.Filename, workflow.ErrDuplicateDefinition)
		}
		seen[def.Filename] = true
		def.Finalize()
		logger.Debug("loaded workflow", "file", def.Filename, "triggers", len(def.Triggers), "jobs", len(def.Jobs))
	}

	logger.Info("workflows loaded", "dir", dir, "count", len(defs))
	return defs, nil
}

func loadFile(dir, name string) (*workflow.Definition, error) {
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, &workflow.MalformedDefinitionError{File: name, Err: err}
	}
	return Parse(name, content)
}

// MatchesExtension reports whether name ends in one of exts. Extensions
// are compared case-insensitively and the leading dot is optional.
func MatchesExtension(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return slices.ContainsFunc(exts, func(e string) bool {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		return strings.ToLower(e) == ext
	})
}
