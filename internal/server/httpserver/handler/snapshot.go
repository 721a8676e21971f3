// Package handler provides HTTP request handlers for LeakLab.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/yndnr/leaklab-go/internal/heapsnap"
	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

// handleSnapshotWrite handles POST /snapshots. It performs one
// synchronous heap snapshot and returns the file path.
func (h *Handler) handleSnapshotWrite(w http.ResponseWriter, r *http.Request) {
	path, err := heapsnap.Write(h.snapOpts.Label, h.snapOpts.OutputDir)
	if err != nil {
		logger.L(r.Context()).Error("heap snapshot failed", "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "LL-SNAP-5000", err.Error())
		return
	}

	size, _ := heapsnap.Size(path)
	h.writeJSON(w, r, http.StatusCreated, SnapshotWriteResponse{
		Path:      path,
		SizeBytes: size,
	})
}

// handleSnapshotList handles GET /snapshots.
func (h *Handler) handleSnapshotList(w http.ResponseWriter, r *http.Request) {
	files, err := heapsnap.List(h.snapOpts.OutputDir)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, "LL-SNAP-5001", err.Error())
		return
	}
	h.writeJSON(w, r, http.StatusOK, SnapshotListResponse{
		Dir:   h.snapOpts.OutputDir,
		Files: files,
		Count: len(files),
	})
}

// handleAutoStart handles POST /snapshots/auto/start. The request body
// is optional; when present it can override the interval and GC policy.
func (h *Handler) handleAutoStart(w http.ResponseWriter, r *http.Request) {
	var req AutoStartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, r, http.StatusBadRequest, "LL-ARG-4001", "invalid request body")
		return
	}

	opts := h.snapOpts
	if req.IntervalSeconds > 0 {
		opts.Interval = time.Duration(req.IntervalSeconds * float64(time.Second))
	}
	if req.BeforeGC {
		opts.BeforeGC = true
	}

	h.mu.Lock()
	if h.job != nil && h.job.Running() {
		h.mu.Unlock()
		h.writeError(w, r, http.StatusConflict, "LL-SNAP-4090", "auto snapshot already running")
		return
	}
	// The job must outlive the request, so it is not tied to r.Context().
	job := heapsnap.StartAuto(context.Background(), opts)
	h.job = job
	h.mu.Unlock()

	logger.L(r.Context()).Info("auto snapshot started",
		"interval", opts.Interval,
		"dir", opts.OutputDir)
	h.writeJSON(w, r, http.StatusOK, AutoStatusResponse{
		Running:         true,
		IntervalSeconds: opts.Interval.Seconds(),
		Count:           len(job.Files()),
	})
}

// handleAutoStop handles POST /snapshots/auto/stop.
func (h *Handler) handleAutoStop(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	job := h.job
	h.job = nil
	h.mu.Unlock()

	if job == nil {
		h.writeError(w, r, http.StatusConflict, "LL-SNAP-4091", "auto snapshot not running")
		return
	}

	files := job.Stop()
	logger.L(r.Context()).Info("auto snapshot stopped", "captured", len(files))
	h.writeJSON(w, r, http.StatusOK, AutoStatusResponse{
		Running: false,
		Files:   files,
		Count:   len(files),
	})
}

// handleAutoStatus handles GET /snapshots/auto.
func (h *Handler) handleAutoStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	job := h.job
	h.mu.Unlock()

	if job == nil {
		h.writeJSON(w, r, http.StatusOK, AutoStatusResponse{Running: false})
		return
	}

	files := job.Files()
	h.writeJSON(w, r, http.StatusOK, AutoStatusResponse{
		Running:         job.Running(),
		IntervalSeconds: job.Interval().Seconds(),
		Files:           files,
		Count:           len(files),
	})
}
