// Package config provides CLI configuration for LeakLab.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.leaklab/cli.yaml)
//   - loader.go: Configuration loading
//
// Configuration includes:
//
//   - Default server address
//   - Output format preference
package config
