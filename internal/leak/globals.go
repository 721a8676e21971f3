package leak

import (
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
)

// The global store is the exhibit for the global-variable pattern: a
// single package-scoped container that lives for the whole process.
// It is reachable only through these accessors so tests can reset it
// deterministically.
var (
	globalMu   sync.Mutex
	globalBufs [][]byte
)

// appendGlobal adds one payload to the global container and returns
// the new length.
func appendGlobal(size int) int {
	buf := make([]byte, size)
	touchPages(buf)

	globalMu.Lock()
	defer globalMu.Unlock()
	globalBufs = append(globalBufs, buf)
	return len(globalBufs)
}

// resetGlobal truncates the global container and returns how many
// payloads were dropped.
func resetGlobal() int {
	globalMu.Lock()
	defer globalMu.Unlock()
	n := len(globalBufs)
	globalBufs = globalBufs[:0]
	return n
}

// globalCount returns the current length of the global container.
func globalCount() int {
	globalMu.Lock()
	defer globalMu.Unlock()
	return len(globalBufs)
}

// GlobalEngine simulates growth of process-wide mutable state: every
// tick appends one payload to the package-scoped container above.
type GlobalEngine struct {
	mu       sync.Mutex
	log      logger.Logger
	interval time.Duration
	payload  int

	stopCh chan struct{}
	done   chan struct{}
}

// NewGlobalEngine creates an idle global-variable engine.
func NewGlobalEngine(interval time.Duration, payloadBytes int, log logger.Logger) *GlobalEngine {
	return &GlobalEngine{
		log:      log,
		interval: interval,
		payload:  payloadBytes,
	}
}

// Pattern implements Engine.
func (e *GlobalEngine) Pattern() string { return PatternGlobal }

// Start begins appending one payload per tick to the global container.
func (e *GlobalEngine) Start() StartResult {
	e.mu.Lock()
	if e.stopCh != nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StartResult{Message: "global variable leak already running", Stats: stats}
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	e.stopCh, e.done = stopCh, done
	stats := e.statsLocked()
	e.mu.Unlock()

	go e.run(stopCh, done)

	observe(stats)
	e.log.Info("global variable leak started")
	return StartResult{Message: "global variable leak started", Stats: stats}
}

func (e *GlobalEngine) run(stopCh, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

func (e *GlobalEngine) tick() {
	e.mu.Lock()
	if e.stopCh == nil {
		e.mu.Unlock()
		return
	}
	appendGlobal(e.payload)
	stats := e.statsLocked()
	e.mu.Unlock()

	metric.Global().LeakTicks.WithLabelValues(PatternGlobal).Inc()
	observe(stats)
}

// Stop halts the ticker, waits for the tick goroutine to exit, then
// truncates the global container to length zero.
func (e *GlobalEngine) Stop() StopResult {
	e.mu.Lock()
	if e.stopCh == nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StopResult{Message: "global variable leak not running", Cleared: 0, Stats: stats}
	}
	stopCh, done := e.stopCh, e.done
	e.stopCh, e.done = nil, nil
	e.mu.Unlock()

	close(stopCh)
	<-done

	cleared := resetGlobal()
	stats := e.Status()

	observe(stats)
	e.log.Info("global variable leak stopped", "cleared_arrays", cleared)
	return StopResult{Message: "global variable leak stopped", Cleared: cleared, Stats: stats}
}

// Status implements Engine.
func (e *GlobalEngine) Status() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *GlobalEngine) statsLocked() Stats {
	count := globalCount()
	return Stats{
		Pattern:     PatternGlobal,
		Count:       count,
		EstimatedMB: float64(count) * globalSliceMB,
		Leaking:     e.stopCh != nil,
	}
}
