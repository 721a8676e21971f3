// Package handler provides HTTP request handlers for LeakLab.
package handler

import (
	"net/http"

	"github.com/yndnr/leaklab-go/internal/leak"
	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

// handleListLeaks handles GET /leaks.
func (h *Handler) handleListLeaks(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, ListLeaksResponse{Items: h.engines.Statuses()})
}

// handleLeakStatus handles GET /leaks/{pattern}.
func (h *Handler) handleLeakStatus(w http.ResponseWriter, r *http.Request) {
	engine, ok := h.engines.Get(r.PathValue("pattern"))
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "LL-LEAK-4040", "unknown leak pattern")
		return
	}
	h.writeJSON(w, r, http.StatusOK, engine.Status())
}

// handleLeakStart handles POST /leaks/{pattern}/start.
func (h *Handler) handleLeakStart(w http.ResponseWriter, r *http.Request) {
	pattern := r.PathValue("pattern")
	engine, ok := h.engines.Get(pattern)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "LL-LEAK-4040", "unknown leak pattern")
		return
	}

	result := engine.Start()
	logger.L(r.Context()).Info("leak start requested",
		"pattern", pattern,
		"message", result.Message)
	h.writeJSON(w, r, http.StatusOK, result)
}

// handleLeakStop handles POST /leaks/{pattern}/stop.
func (h *Handler) handleLeakStop(w http.ResponseWriter, r *http.Request) {
	pattern := r.PathValue("pattern")
	engine, ok := h.engines.Get(pattern)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "LL-LEAK-4040", "unknown leak pattern")
		return
	}

	result := engine.Stop()
	logger.L(r.Context()).Info("leak stop requested",
		"pattern", pattern,
		"cleared", result.Cleared)
	h.writeJSON(w, r, http.StatusOK, result)
}

// handleLeakTrigger handles POST /leaks/event/trigger. It notifies every
// leaked listener without changing the accumulator.
func (h *Handler) handleLeakTrigger(w http.ResponseWriter, r *http.Request) {
	result := h.engines.Event().Trigger()
	logger.L(r.Context()).Info("leak listeners triggered",
		"pattern", leak.PatternEvent,
		"notified", result.Notified)
	h.writeJSON(w, r, http.StatusOK, result)
}
