// Package handler provides HTTP request handlers for LeakLab.
package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/leaklab-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready. Readiness drops while a
// signal-triggered snapshot capture is in flight.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil && !h.ready.Load() {
		h.writeError(w, r, http.StatusServiceUnavailable, "LL-SYS-5030", "snapshot capture in progress")
		return
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
