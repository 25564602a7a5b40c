// Package watch reports changes to workflow definition files in a directory.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	intconfig "github.com/leapstack-labs/wfgraph/internal/config"
	"github.com/leapstack-labs/wfgraph/internal/loader"
)

// DefaultDebounce collapses bursts of file events into one change.
const DefaultDebounce = 100 * time.Millisecond

// Options configures Run.
type Options struct {
	// Extensions selects definition files. Empty means the defaults.
	Extensions []string
	// Ignore lists paths whose events are dropped, such as the file the
	// caller writes its output to.
	Ignore []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
	// OnStart runs once the directory is being watched, before any change
	// is reported.
	OnStart func()
	Logger  *slog.Logger
}

// Run watches dir and calls onChange with the base name of the last
// changed file once events have been quiet for the debounce interval. It
// returns nil when ctx is done. onChange runs on the calling goroutine, so
// calls never overlap.
func Run(ctx context.Context, dir string, opts Options, onChange func(name string)) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching for changes", "dir", dir)
	if opts.OnStart != nil {
		opts.OnStart()
	}

	var pending <-chan time.Time
	var lastChange string
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !Relevant(event, opts) {
				continue
			}
			logger.Debug("file event", "file", event.Name, "op", event.Op.String())
			lastChange = filepath.Base(event.Name)
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			onChange(lastChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// Relevant reports whether event touches a definition file.
func Relevant(event fsnotify.Event, opts Options) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	for _, ignored := range opts.Ignore {
		if sameFile(event.Name, ignored) {
			return false
		}
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = intconfig.DefaultExtensions()
	}
	return loader.MatchesExtension(event.Name, exts)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
