// Package config defines the server configuration structure.
package config

import (
	"os"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Check server defaults
	if cfg.Server.HTTP.Addr != DefaultHTTPAddr {
		t.Errorf("HTTP.Addr = %q, want %q", cfg.Server.HTTP.Addr, DefaultHTTPAddr)
	}
	if cfg.Server.HTTP.RateLimit != DefaultRateLimit {
		t.Errorf("RateLimit = %v, want %v", cfg.Server.HTTP.RateLimit, DefaultRateLimit)
	}
	if cfg.Server.HTTP.RateBurst != DefaultRateBurst {
		t.Errorf("RateBurst = %d, want %d", cfg.Server.HTTP.RateBurst, DefaultRateBurst)
	}

	// Check snapshot defaults
	if cfg.Snapshot.Dir != DefaultSnapshotDir {
		t.Errorf("Snapshot.Dir = %q, want %q", cfg.Snapshot.Dir, DefaultSnapshotDir)
	}
	if cfg.Snapshot.Label != DefaultSnapshotLabel {
		t.Errorf("Snapshot.Label = %q, want %q", cfg.Snapshot.Label, DefaultSnapshotLabel)
	}
	if cfg.Snapshot.Interval != DefaultSnapshotInterval {
		t.Errorf("Snapshot.Interval = %v, want %v", cfg.Snapshot.Interval, DefaultSnapshotInterval)
	}
	if !cfg.Snapshot.Immediate {
		t.Error("Snapshot.Immediate should default to true")
	}
	if cfg.Snapshot.BeforeGC {
		t.Error("Snapshot.BeforeGC should default to false")
	}

	// Check leak defaults
	if cfg.Leak.TickInterval != DefaultLeakTickInterval {
		t.Errorf("Leak.TickInterval = %v, want %v", cfg.Leak.TickInterval, DefaultLeakTickInterval)
	}

	// Check log defaults
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want %q", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.Format != DefaultLogFormat {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, DefaultLogFormat)
	}
}

func TestVerify_ValidConfig(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
}

func TestVerify_EmptyAddr(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Server.HTTP.Addr = ""

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for empty http addr")
	}
}

func TestVerify_BadRateBurst(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Server.HTTP.RateLimit = 10
	cfg.Server.HTTP.RateBurst = 0

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for zero burst with rate limiting on")
	}
}

func TestVerify_EmptySnapshotDir(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = ""

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for empty snapshot dir")
	}
}

func TestVerify_CreatesSnapshotDir(t *testing.T) {
	dir := t.TempDir() + "/nested/heapdumps"

	cfg := Default()
	cfg.Snapshot.Dir = dir

	if err := Verify(cfg); err != nil {
		t.Errorf("Verify failed: %v", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Snapshot directory should have been created")
	}
}

func TestVerify_BadSnapshotInterval(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Snapshot.Interval = 0

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for zero snapshot interval")
	}
}

func TestVerify_BadTickInterval(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Leak.TickInterval = -time.Second

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for negative tick interval")
	}
}

func TestVerify_NegativePayload(t *testing.T) {
	cfg := Default()
	cfg.Snapshot.Dir = t.TempDir()
	cfg.Leak.CachePayloadBytes = -1

	if err := Verify(cfg); err == nil {
		t.Error("Expected error for negative payload size")
	}
}
