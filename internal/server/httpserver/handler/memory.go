// Package handler provides HTTP request handlers for LeakLab.
package handler

import (
	"net/http"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v4/process"
)

// handleMemory handles GET /memory. It reports Go heap statistics and,
// when available, the process resident set size.
func (h *Handler) handleMemory(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := MemoryResponse{
		HeapAllocBytes: ms.HeapAlloc,
		HeapSysBytes:   ms.HeapSys,
		HeapObjects:    ms.HeapObjects,
		SysBytes:       ms.Sys,
		TotalAllocated: ms.TotalAlloc,
		NumGC:          ms.NumGC,
		Goroutines:     runtime.NumGoroutine(),
	}

	// RSS is best-effort; the Go stats alone are still useful.
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil {
			resp.RSSBytes = mi.RSS
		}
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}
