// Package handler provides HTTP request handlers for LeakLab.
package handler

import (
	"time"

	"github.com/yndnr/leaklab-go/internal/leak"
)

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
	}
}

// ListLeaksResponse is the response body for GET /leaks.
type ListLeaksResponse struct {
	Items []leak.Stats `json:"items"`
}

// SnapshotWriteResponse is the response body for POST /snapshots.
type SnapshotWriteResponse struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"size_bytes"`
}

// SnapshotListResponse is the response body for GET /snapshots.
type SnapshotListResponse struct {
	Dir   string   `json:"dir"`
	Files []string `json:"files"`
	Count int      `json:"count"`
}

// AutoStartRequest is the optional request body for POST /snapshots/auto/start.
type AutoStartRequest struct {
	IntervalSeconds float64 `json:"interval_seconds,omitempty"`
	BeforeGC        bool    `json:"before_gc,omitempty"`
}

// AutoStatusResponse describes the auto-snapshot job.
type AutoStatusResponse struct {
	Running         bool     `json:"running"`
	IntervalSeconds float64  `json:"interval_seconds,omitempty"`
	Files           []string `json:"files,omitempty"`
	Count           int      `json:"count"`
}

// MemoryResponse is the response body for GET /memory.
type MemoryResponse struct {
	HeapAllocBytes uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes   uint64 `json:"heap_sys_bytes"`
	HeapObjects    uint64 `json:"heap_objects"`
	SysBytes       uint64 `json:"sys_bytes"`
	TotalAllocated uint64 `json:"total_alloc_bytes"`
	NumGC          uint32 `json:"num_gc"`
	Goroutines     int    `json:"goroutines"`
	RSSBytes       uint64 `json:"rss_bytes,omitempty"`
}
