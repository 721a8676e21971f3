// Package config defines the server configuration structure.
package config

import (
	"errors"
	"os"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifySnapshot(&cfg.Snapshot); err != nil {
		return err
	}
	return verifyLeak(&cfg.Leak)
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if cfg.HTTP.RateLimit > 0 && cfg.HTTP.RateBurst < 1 {
		return errors.New("server.http.rate_burst must be at least 1 when rate limiting is on")
	}
	return nil
}

func verifySnapshot(cfg *SnapshotSection) error {
	if cfg.Dir == "" {
		return errors.New("snapshot.dir is required")
	}

	// Check the snapshot directory exists or can be created.
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return errors.New("cannot create snapshot directory: " + err.Error())
	}

	if cfg.Interval <= 0 {
		return errors.New("snapshot.interval must be positive")
	}
	return nil
}

func verifyLeak(cfg *LeakSection) error {
	if cfg.TickInterval <= 0 {
		return errors.New("leak.tick_interval must be positive")
	}
	if cfg.CachePayloadBytes < 0 || cfg.ClosurePayloadBytes < 0 ||
		cfg.ListenerPayloadBytes < 0 || cfg.GlobalPayloadBytes < 0 {
		return errors.New("leak payload sizes must not be negative")
	}
	return nil
}
