// Package server provides a local preview server for the workflow diagram:
// the rendered documents, the workflow summary, and a live page that
// updates whenever the input directory changes.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/wfgraph/internal/graph"
	"github.com/leapstack-labs/wfgraph/internal/loader"
	"github.com/leapstack-labs/wfgraph/internal/render"
	"github.com/leapstack-labs/wfgraph/internal/report"
	"github.com/leapstack-labs/wfgraph/internal/watch"
	"golang.org/x/sync/errgroup"
)

// Config holds configuration for the preview server.
type Config struct {
	InputDir string
	Addr     string
	// Watch regenerates the snapshot when a definition file changes.
	Watch  bool
	Loader loader.Options
	Graph  graph.Options
	Logger *slog.Logger
}

// Snapshot is the result of one generation. When the latest generation
// failed, Err is set and the documents are those of the last success.
type Snapshot struct {
	Generation  string
	GeneratedAt time.Time
	DOT         []byte
	JSON        []byte
	Workflows   *report.ListOutput
	Err         error
}

// Ready reports whether the snapshot holds documents.
func (s *Snapshot) Ready() bool {
	return s != nil && s.DOT != nil
}

// Server serves the current snapshot over HTTP.
type Server struct {
	cfg    Config
	logger *slog.Logger
	hub    *hub

	mu      sync.RWMutex
	current *Snapshot
}

// New creates a server. No snapshot exists until Refresh or Serve runs.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Loader.Logger == nil {
		cfg.Loader.Logger = logger
	}
	return &Server{
		cfg:     cfg,
		logger:  logger,
		hub:     newHub(),
		current: &Snapshot{},
	}
}

// Snapshot returns the current snapshot.
func (s *Server) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Refresh loads, builds and renders the input directory and publishes
// the result to every update stream. A failure keeps the previous
// documents and is returned as well as recorded on the snapshot.
func (s *Server) Refresh(ctx context.Context) error {
	next, err := s.generate(ctx)

	s.mu.Lock()
	if err != nil {
		prev := *s.current
		prev.Err = err
		s.current = &prev
	} else {
		s.current = next
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("generation failed", "error", err)
	} else {
		s.logger.Info("snapshot updated", "generation", next.Generation, "workflows", len(next.Workflows.Workflows))
	}
	s.hub.broadcast()
	return err
}

func (s *Server) generate(ctx context.Context) (*Snapshot, error) {
	defs, err := loader.LoadAll(ctx, s.cfg.InputDir, s.cfg.Loader)
	if err != nil {
		return nil, err
	}
	g, err := graph.Build(defs, s.cfg.Graph)
	if err != nil {
		return nil, err
	}
	workflows, err := report.Summarize(defs, s.cfg.Graph.Mode)
	if err != nil {
		return nil, err
	}

	var dot, doc bytes.Buffer
	if err := render.Render(&dot, g, render.FormatDOT); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}
	if err := render.Render(&doc, g, render.FormatJSON); err != nil {
		return nil, fmt.Errorf("failed to render graph: %w", err)
	}

	return &Snapshot{
		Generation:  uuid.NewString(),
		GeneratedAt: time.Now(),
		DOT:         dot.Bytes(),
		JSON:        doc.Bytes(),
		Workflows:   workflows,
	}, nil
}

// Serve generates the first snapshot, then serves HTTP on cfg.Addr until
// ctx is done. Generation errors never stop the server.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener, which it closes.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting preview server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.cfg.Watch {
		eg.Go(func() error {
			return watch.Run(egctx, s.cfg.InputDir, watch.Options{
				Extensions: s.cfg.Loader.Extensions,
				OnStart:    func() { _ = s.Refresh(egctx) },
				Logger:     s.logger,
			}, func(name string) {
				s.logger.Debug("definition changed", "file", name)
				_ = s.Refresh(egctx)
			})
		})
	} else {
		_ = s.Refresh(egctx)
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down preview server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
