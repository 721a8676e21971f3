// Package command provides CLI command definitions for leaklab-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: Root command and global flags
//   - snap.go: Heap snapshot subcommand group (once, every, list)
//   - leak.go: Leak engine subcommand group (start, stop, status, trigger)
//
// Commands follow a consistent pattern of parsing flags, calling the
// server API, and formatting output.
package command
