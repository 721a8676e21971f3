// Package main provides the entry point for leaklab-cli.
//
// The CLI tool drives a running leaklab-server:
//
//   - Leak engine control (start, stop, status, trigger)
//   - Heap snapshot capture (once, client-side series, server auto mode)
//   - Server memory status
//
// Usage:
//
//	leaklab-cli [command] [flags]
//	leaklab-cli leak start cache
//	leaklab-cli snap every --times 5 --interval 10s
//	leaklab-cli status --output json
package main
