// Package output provides output formatting for leaklab-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: Table rendering with wide mode support
//   - json.go: JSON output formatting
//   - spinner.go: Progress animation for long operations
//   - progress.go: Progress bar for multi-step captures
//
// Formatters support:
//
//   - Multiple output formats (table, json)
//   - Wide mode for additional columns
//   - Machine-readable output for scripting
package output
