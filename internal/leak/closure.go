package leak

import (
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
)

// ClosureEngine simulates closures that capture large buffers: every
// tick appends one new closure holding a fresh payload, and the
// closure list keeps all of them reachable.
type ClosureEngine struct {
	mu       sync.Mutex
	log      logger.Logger
	interval time.Duration
	payload  int

	stopCh   chan struct{}
	done     chan struct{}
	closures []func() int
}

// NewClosureEngine creates an idle closure engine.
func NewClosureEngine(interval time.Duration, payloadBytes int, log logger.Logger) *ClosureEngine {
	return &ClosureEngine{
		log:      log,
		interval: interval,
		payload:  payloadBytes,
	}
}

// Pattern implements Engine.
func (e *ClosureEngine) Pattern() string { return PatternClosure }

// Start begins appending one capturing closure per tick.
func (e *ClosureEngine) Start() StartResult {
	e.mu.Lock()
	if e.stopCh != nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StartResult{Message: "closure leak already running", Stats: stats}
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	e.stopCh, e.done = stopCh, done
	stats := e.statsLocked()
	e.mu.Unlock()

	go e.run(stopCh, done)

	observe(stats)
	e.log.Info("closure leak started")
	return StartResult{Message: "closure leak started", Stats: stats}
}

func (e *ClosureEngine) run(stopCh, done chan struct{}) {
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

func (e *ClosureEngine) tick() {
	e.mu.Lock()
	if e.stopCh == nil {
		e.mu.Unlock()
		return
	}
	buf := make([]byte, e.payload)
	touchPages(buf)
	// The closure is what keeps buf alive.
	e.closures = append(e.closures, func() int { return len(buf) })
	stats := e.statsLocked()
	e.mu.Unlock()

	metric.Global().LeakTicks.WithLabelValues(PatternClosure).Inc()
	observe(stats)
}

// Stop halts the ticker, waits for the tick goroutine to exit, then
// drops the closure list so the captured buffers become collectable.
func (e *ClosureEngine) Stop() StopResult {
	e.mu.Lock()
	if e.stopCh == nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StopResult{Message: "closure leak not running", Cleared: 0, Stats: stats}
	}
	stopCh, done := e.stopCh, e.done
	e.stopCh, e.done = nil, nil
	e.mu.Unlock()

	close(stopCh)
	<-done

	e.mu.Lock()
	cleared := len(e.closures)
	e.closures = nil
	stats := e.statsLocked()
	e.mu.Unlock()

	observe(stats)
	e.log.Info("closure leak stopped", "cleared_closures", cleared)
	return StopResult{Message: "closure leak stopped", Cleared: cleared, Stats: stats}
}

// Status implements Engine.
func (e *ClosureEngine) Status() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *ClosureEngine) statsLocked() Stats {
	count := len(e.closures)
	return Stats{
		Pattern:     PatternClosure,
		Count:       count,
		EstimatedMB: float64(count) * closureMB,
		Leaking:     e.stopCh != nil,
	}
}
