// Package logger provides structured logging for leaklab.
//
// It wraps log/slog with a small interface so components can log
// without depending on a concrete handler:
//
//   - logger.go: configuration, construction, global default
//   - context.go: request-ID propagation through context.Context
//
// Output is JSON by default; the level can be adjusted at runtime
// (config reload flips it without recreating handlers).
package logger
