package output

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncWriter serializes writes so the animation goroutine and the test
// never touch the buffer at the same time.
type syncWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.String()
}

func TestNewSpinner(t *testing.T) {
	w := &syncWriter{}
	s := NewSpinner(w, "Capturing heap snapshot...")

	if s == nil {
		t.Fatal("NewSpinner returned nil")
	}
	if s.message != "Capturing heap snapshot..." {
		t.Errorf("message = %q", s.message)
	}
	if len(s.frames) == 0 {
		t.Error("spinner has no animation frames")
	}
	if s.done == nil {
		t.Error("done channel not initialized")
	}
}

func TestSpinner_StartStop(t *testing.T) {
	w := &syncWriter{}
	s := NewSpinner(w, "Capturing heap snapshot...")

	s.Start()
	time.Sleep(150 * time.Millisecond)
	s.Stop()
	time.Sleep(150 * time.Millisecond)

	out := w.String()
	if !strings.Contains(out, "Capturing heap snapshot...") {
		t.Errorf("missing message, got %q", out)
	}
	if !strings.ContainsAny(out, "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏") {
		t.Error("no animation frame rendered")
	}
	if !strings.Contains(out, "\r") {
		t.Error("spinner should redraw in place")
	}
}

func TestSpinner_Success(t *testing.T) {
	w := &syncWriter{}
	s := NewSpinner(w, "Capturing heap snapshot...")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Success("Snapshot written: heapdumps/leak-2026-08-25.heapsnapshot")
	time.Sleep(150 * time.Millisecond)

	out := w.String()
	if !strings.Contains(out, "✓") {
		t.Error("missing success marker")
	}
	if !strings.Contains(out, "Snapshot written") {
		t.Errorf("missing success message, got %q", out)
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("success should end the line")
	}
}

func TestSpinner_Fail(t *testing.T) {
	w := &syncWriter{}
	s := NewSpinner(w, "Capturing heap snapshot...")

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Fail("snapshot failed")
	time.Sleep(150 * time.Millisecond)

	out := w.String()
	if !strings.Contains(out, "✗") {
		t.Error("missing failure marker")
	}
	if !strings.Contains(out, "snapshot failed") {
		t.Errorf("missing failure message, got %q", out)
	}
}
