// Package handler provides HTTP request handlers for LeakLab.
//
// This package implements the HTTP API endpoints for driving the leak
// engines and capturing heap snapshots.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/yndnr/leaklab-go/internal/heapsnap"
	"github.com/yndnr/leaklab-go/internal/leak"
	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
)

// Config holds the dependencies for the HTTP handler.
type Config struct {
	// Engines is the set of leak-pattern engines.
	Engines *leak.Set

	// SnapshotOptions is the base configuration for snapshot capture
	// (label, output dir, interval, before-GC).
	SnapshotOptions heapsnap.Options

	// Ready gates the /ready endpoint. If nil, the server is always
	// ready.
	Ready *atomic.Bool

	// Logger for request handling.
	Logger logger.Logger
}

// Handler is the main HTTP handler that routes requests to appropriate handlers.
type Handler struct {
	engines  *leak.Set
	snapOpts heapsnap.Options
	ready    *atomic.Bool
	logger   logger.Logger
	mux      *http.ServeMux

	mu  sync.Mutex
	job *heapsnap.Job
}

// New creates a new Handler with the given dependencies.
func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	h := &Handler{
		engines:  cfg.Engines,
		snapOpts: cfg.SnapshotOptions,
		ready:    cfg.Ready,
		logger:   log,
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// registerRoutes registers all HTTP routes.
func (h *Handler) registerRoutes() {
	// Health endpoints
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	// Leak engine endpoints
	h.mux.HandleFunc("GET /leaks", h.handleListLeaks)
	h.mux.HandleFunc("GET /leaks/{pattern}", h.handleLeakStatus)
	h.mux.HandleFunc("POST /leaks/{pattern}/start", h.handleLeakStart)
	h.mux.HandleFunc("POST /leaks/{pattern}/stop", h.handleLeakStop)
	h.mux.HandleFunc("POST /leaks/event/trigger", h.handleLeakTrigger)

	// Snapshot endpoints
	h.mux.HandleFunc("POST /snapshots", h.handleSnapshotWrite)
	h.mux.HandleFunc("GET /snapshots", h.handleSnapshotList)
	h.mux.HandleFunc("POST /snapshots/auto/start", h.handleAutoStart)
	h.mux.HandleFunc("POST /snapshots/auto/stop", h.handleAutoStop)
	h.mux.HandleFunc("GET /snapshots/auto", h.handleAutoStatus)

	// Process memory endpoint
	h.mux.HandleFunc("GET /memory", h.handleMemory)

	// Prometheus metrics
	h.mux.Handle("GET /metrics", metric.Handler())
}

// StopJob stops the auto-snapshot job, if one is running. Used on
// server shutdown.
func (h *Handler) StopJob(ctx context.Context) error {
	h.mu.Lock()
	job := h.job
	h.job = nil
	h.mu.Unlock()
	if job != nil {
		job.Stop()
	}
	return nil
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := logger.RequestIDFromContext(r.Context())
	response := NewErrorResponse(requestID, code, message)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}
