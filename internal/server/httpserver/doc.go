// Package httpserver provides the HTTP server for LeakLab.
//
// This package implements the primary external API using stdlib net/http:
//
//   - Leak endpoints: /leaks, /leaks/{pattern}/start, /leaks/{pattern}/stop,
//     /leaks/event/trigger
//   - Snapshot endpoints: /snapshots, /snapshots/auto/*
//   - Memory endpoint: /memory
//   - Health endpoints: /health, /ready, /metrics
//
// Features:
//
//   - Middleware chain: Recover, RequestID, RateLimit, AccessLog
//   - Graceful shutdown with configurable timeout
//   - Prometheus metrics integration
package httpserver
