// Package main provides the entry point for leaklab-server.
//
// The server hosts the LeakLab demo surface:
//
//   - Five controllable leak-pattern engines (timer, cache, closure,
//     event, global)
//   - One-shot and scheduled heap snapshot capture
//   - Process memory and Prometheus metrics endpoints
//
// Usage:
//
//	leaklab-server [flags]
//	leaklab-server --config /path/to/config.yaml
//
// Sending SIGUSR2 to the process captures one heap snapshot out of
// band. The server loads configuration, starts the HTTP listener, and
// shuts down gracefully on SIGINT/SIGTERM.
package main
