// Package config defines the CLI configuration structure.
package config

// CLIConfig is the configuration for leaklab-cli.
type CLIConfig struct {
	// DefaultServer is the server address used when --server is absent.
	DefaultServer string `koanf:"default_server"`

	// DefaultOutput is the output format used when --output is absent.
	DefaultOutput string `koanf:"default_output"` // table, json
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "http://localhost:3000",
		DefaultOutput: "table",
	}
}
