package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/starfederation/datastar-go/datastar"
)

// GenerationHeader carries the generation id of the served snapshot.
const GenerationHeader = "X-Wfgraph-Generation"

// Handler returns the HTTP routes of the preview server.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handlePage)
	r.Get("/updates", s.handleUpdates)
	r.Get("/graph.dot", s.handleDocument("text/vnd.graphviz; charset=utf-8", func(snap *Snapshot) []byte { return snap.DOT }))
	r.Get("/graph.json", s.handleDocument("application/json", func(snap *Snapshot) []byte { return snap.JSON }))
	r.Get("/api/workflows", s.handleWorkflows)
	r.Post("/api/refresh", s.handleRefresh)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(s.Snapshot()).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleUpdates streams the page content, once on connect and again after
// every refresh, until the client goes away.
func (s *Server) handleUpdates(w http.ResponseWriter, r *http.Request) {
	updates := s.hub.subscribe()
	defer s.hub.unsubscribe(updates)

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(Content(s.Snapshot())); err != nil {
		_ = sse.ConsoleError(err)
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := sse.PatchElementTempl(Content(s.Snapshot())); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (s *Server) handleDocument(contentType string, body func(*Snapshot) []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.Snapshot()
		if !snap.Ready() {
			http.Error(w, unavailableMessage(snap), http.StatusServiceUnavailable)
			return
		}

		etag := `"` + snap.Generation + `"`
		w.Header().Set("ETag", etag)
		w.Header().Set(GenerationHeader, snap.Generation)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body(snap))
	}
}

func (s *Server) handleWorkflows(w http.ResponseWriter, _ *http.Request) {
	snap := s.Snapshot()
	if !snap.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: unavailableMessage(snap)}, s.logger)
		return
	}
	w.Header().Set(GenerationHeader, snap.Generation)
	writeJSON(w, http.StatusOK, snap.Workflows, s.logger)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()}, s.logger)
		return
	}
	snap := s.Snapshot()
	writeJSON(w, http.StatusOK, refreshResponse{
		Generation:  snap.Generation,
		GeneratedAt: snap.GeneratedAt,
	}, s.logger)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	snap := s.Snapshot()
	resp := healthResponse{Status: "ok", Generation: snap.Generation}
	if snap.Err != nil {
		resp.Status = "degraded"
		resp.Error = snap.Err.Error()
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

type errorResponse struct {
	Error string `json:"error"`
}

type refreshResponse struct {
	Generation  string    `json:"generation"`
	GeneratedAt time.Time `json:"generated_at"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Generation string `json:"generation,omitempty"`
	Error      string `json:"error,omitempty"`
}

func unavailableMessage(snap *Snapshot) string {
	if snap != nil && snap.Err != nil {
		return snap.Err.Error()
	}
	return "graph not generated yet"
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error("failed to write response", "error", err)
	}
}
