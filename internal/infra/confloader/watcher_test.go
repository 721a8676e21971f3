package confloader

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

const (
	levelInfoYAML  = "log:\n  level: info\n"
	levelDebugYAML = "log:\n  level: debug\n"
)

// writeServerConfig writes a config fixture and returns its path.
func writeServerConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
	return path
}

// waitForChange waits for a change notification or fails the test.
func waitForChange(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case path := <-ch:
		return path
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for config change notification")
		return ""
	}
}

func quietWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := NewWatcher(WithWatcherLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	return w
}

func TestNewWatcher(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if w.watcher == nil {
		t.Error("fsnotify watcher not initialized")
	}
	if w.files == nil {
		t.Error("watched file set not initialized")
	}
	if w.logger == nil {
		t.Error("logger not initialized")
	}
}

func TestNewWatcher_WithLogger(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w, err := NewWatcher(WithWatcherLogger(logger))
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Stop()

	if w.logger != logger {
		t.Error("custom logger was not applied")
	}
}

func TestWatcher_Watch(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	if !w.isWatched(cfgPath) {
		t.Error("config file not registered after Watch")
	}
}

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w := quietWatcher(t)
	defer w.Stop()

	if err := w.Watch("/nonexistent/leaklab/config.yaml"); err == nil {
		t.Error("expected error watching a nonexistent directory")
	}
}

func TestWatcher_OnChange(t *testing.T) {
	w := quietWatcher(t)
	defer w.Stop()

	w.OnChange(func(string) {})
	if len(w.callbacks) != 1 {
		t.Errorf("callbacks = %d, want 1", len(w.callbacks))
	}

	w.OnChange(func(string) {})
	w.OnChange(func(string) {})
	if len(w.callbacks) != 3 {
		t.Errorf("callbacks = %d, want 3", len(w.callbacks))
	}
}

func TestWatcher_StartStop(t *testing.T) {
	w := quietWatcher(t)

	w.StartAsync()
	time.Sleep(50 * time.Millisecond)

	if err := w.Stop(); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}

func TestWatcher_ReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	// Operator turns up logging mid-experiment.
	writeServerConfig(t, dir, "config.yaml", levelDebugYAML)

	got := waitForChange(t, changed)
	if filepath.Base(got) != "config.yaml" {
		t.Errorf("notified path = %q, want config.yaml", got)
	}
}

func TestWatcher_RenameStyleSave(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	// Save the way vim does: write a temp file, rename over the target.
	tmpPath := writeServerConfig(t, dir, "config.yaml.tmp", levelDebugYAML)
	if err := os.Rename(tmpPath, cfgPath); err != nil {
		t.Fatalf("rename failed: %v", err)
	}

	got := waitForChange(t, changed)
	if filepath.Base(got) != "config.yaml" {
		t.Errorf("notified path = %q, want config.yaml", got)
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	// A snapshot landing next to the config must not trigger a reload.
	writeServerConfig(t, dir, "leak-2026-08-25.heapsnapshot", "profile data")

	select {
	case path := <-changed:
		t.Errorf("unexpected notification for %q", path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ConcurrentCallbacks(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	const callbacks = 5
	var fired atomic.Int32
	for i := 0; i < callbacks; i++ {
		w.OnChange(func(string) { fired.Add(1) })
	}

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	writeServerConfig(t, dir, "config.yaml", levelDebugYAML)

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if fired.Load() >= callbacks {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("only %d of %d callbacks fired", fired.Load(), callbacks)
}

func TestWatcher_RegisterCallbackWhileRunning(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeServerConfig(t, dir, "config.yaml", levelInfoYAML)

	w := quietWatcher(t)
	defer w.Stop()

	if err := w.Watch(cfgPath); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}
	w.StartAsync()
	time.Sleep(100 * time.Millisecond)

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })

	writeServerConfig(t, dir, "config.yaml", levelDebugYAML)
	waitForChange(t, changed)
}
