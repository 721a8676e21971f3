// Package config defines the server configuration structure.
package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr  = "127.0.0.1:3000"
	DefaultRateLimit = 50.0
	DefaultRateBurst = 100

	DefaultSnapshotDir      = "./heapdumps"
	DefaultSnapshotLabel    = "snapshot"
	DefaultSnapshotInterval = 5 * time.Second

	DefaultLeakTickInterval = time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:      DefaultHTTPAddr,
				RateLimit: DefaultRateLimit,
				RateBurst: DefaultRateBurst,
			},
		},
		Snapshot: SnapshotSection{
			Dir:       DefaultSnapshotDir,
			Label:     DefaultSnapshotLabel,
			Interval:  DefaultSnapshotInterval,
			Immediate: true,
		},
		Leak: LeakSection{
			TickInterval: DefaultLeakTickInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
