// Package handler provides HTTP request handlers for LeakLab.
//
// This package contains handlers for all HTTP endpoints:
//
//   - leak.go: Leak engine start/stop/status/trigger
//   - snapshot.go: Heap snapshot capture, listing, and the auto schedule
//   - memory.go: Process memory statistics
//   - health.go: Health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Drive the engine or snapshot layer
//   - Format and return the envelope response
//   - Handle errors with appropriate HTTP status codes
package handler
