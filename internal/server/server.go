// Package server exposes the HTTP boundary: the signed refresh trigger,
// the rendered site, health, build history, and metrics.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kcuzner/rstblog/internal/eventstore"
	"github.com/kcuzner/rstblog/internal/logfields"
)

// Options configures the HTTP server.
type Options struct {
	Listen  string
	Secret  string // empty routes the unauthenticated /test endpoint
	SiteDir string // rendered output tree served at /
	Metrics http.Handler
	History *eventstore.Store
}

// Server hosts the trigger endpoint and the rendered site.
type Server struct {
	httpServer *http.Server
	enqueuer   Enqueuer
	secret     string
	siteDir    string
	metrics    http.Handler
	history    *eventstore.Store
}

// New wires the routes and middleware.
func New(opts Options, enqueuer Enqueuer) *Server {
	s := &Server{
		enqueuer: enqueuer,
		secret:   opts.Secret,
		siteDir:  opts.SiteDir,
		metrics:  opts.Metrics,
		history:  opts.History,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.history != nil {
		mux.HandleFunc("GET /builds", s.handleBuilds)
	}
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics)
	}
	if s.secret == "" {
		// Unsigned trigger for local development only.
		slog.Warn("No webhook secret configured, /test endpoint is enabled and unauthenticated")
		mux.HandleFunc("GET /test", s.handleTest)
	}
	if s.siteDir != "" {
		mux.Handle("GET /", http.FileServer(http.Dir(s.siteDir)))
	}

	s.httpServer = &http.Server{
		Addr:              opts.Listen,
		Handler:           chain(slog.Default())(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the wired handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until Shutdown. Blocks.
func (s *Server) Start() error {
	slog.Info("HTTP server listening", logfields.URL(s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleBuilds returns the most recent recorded builds.
func (s *Server) handleBuilds(w http.ResponseWriter, r *http.Request) {
	builds, err := s.history.Recent(r.Context(), 20)
	if err != nil {
		slog.Error("Failed to query build history", logfields.Error(err))
		http.Error(w, "failed to query build history", http.StatusInternalServerError)
		return
	}
	type buildView struct {
		ID         string    `json:"id"`
		Trigger    string    `json:"trigger"`
		Status     string    `json:"status"`
		StartedAt  time.Time `json:"started_at"`
		DurationMS int64     `json:"duration_ms"`
		Error      string    `json:"error,omitempty"`
	}
	views := make([]buildView, len(builds))
	for i, b := range builds {
		views[i] = buildView{
			ID:         b.ID,
			Trigger:    b.Trigger,
			Status:     b.Status,
			StartedAt:  b.StartedAt,
			DurationMS: b.DurationMS,
			Error:      b.Error,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(views)
}
