// Package config defines the server configuration structure.
package config

import "time"

// ServerConfig is the root configuration for leaklab-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Snapshot SnapshotSection `koanf:"snapshot"`
	Leak     LeakSection     `koanf:"leak"`
	Log      LogSection      `koanf:"log"`
}

// ServerSection configures the HTTP endpoint.
type ServerSection struct {
	HTTP HTTPConfig `koanf:"http"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`

	// RateLimit is the sustained request rate per client; RateBurst is
	// the short-term allowance. Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
}

// SnapshotSection configures heap snapshot capture.
type SnapshotSection struct {
	// Dir is where .heapsnapshot files are written.
	Dir string `koanf:"dir"`

	// Label prefixes every snapshot filename.
	Label string `koanf:"label"`

	// Interval is the auto-capture period.
	Interval time.Duration `koanf:"interval"`

	// Immediate captures one snapshot as soon as auto mode starts.
	Immediate bool `koanf:"immediate"`

	// BeforeGC forces a garbage collection before each capture.
	BeforeGC bool `koanf:"before_gc"`
}

// LeakSection configures the leak-pattern engines.
type LeakSection struct {
	// TickInterval is how often a running engine accumulates.
	TickInterval time.Duration `koanf:"tick_interval"`

	// Payload sizes in bytes. Zero means the engine default.
	CachePayloadBytes    int `koanf:"cache_payload_bytes"`
	ClosurePayloadBytes  int `koanf:"closure_payload_bytes"`
	ListenerPayloadBytes int `koanf:"listener_payload_bytes"`
	GlobalPayloadBytes   int `koanf:"global_payload_bytes"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
