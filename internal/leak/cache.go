package leak

import (
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
)

// CacheEngine simulates an unbounded cache: every tick inserts one
// payload under a fresh key and nothing is ever evicted.
type CacheEngine struct {
	mu       sync.Mutex
	log      logger.Logger
	interval time.Duration
	payload  int

	stopCh  chan struct{}
	done    chan struct{}
	nextKey int
	entries map[int][]byte
}

// NewCacheEngine creates an idle cache engine.
func NewCacheEngine(interval time.Duration, payloadBytes int, log logger.Logger) *CacheEngine {
	return &CacheEngine{
		log:      log,
		interval: interval,
		payload:  payloadBytes,
		entries:  make(map[int][]byte),
	}
}

// Pattern implements Engine.
func (e *CacheEngine) Pattern() string { return PatternCache }

// Start begins inserting one cache entry per tick.
func (e *CacheEngine) Start() StartResult {
	e.mu.Lock()
	if e.stopCh != nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StartResult{Message: "cache leak already running", Stats: stats}
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	e.stopCh, e.done = stopCh, done
	stats := e.statsLocked()
	e.mu.Unlock()

	go e.run(stopCh, done)

	observe(stats)
	e.log.Info("cache leak started")
	return StartResult{Message: "cache leak started", Stats: stats}
}

func (e *CacheEngine) run(stopCh, done chan struct{}) {
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

func (e *CacheEngine) tick() {
	e.mu.Lock()
	if e.stopCh == nil {
		e.mu.Unlock()
		return
	}
	buf := make([]byte, e.payload)
	touchPages(buf)
	e.entries[e.nextKey] = buf
	e.nextKey++
	stats := e.statsLocked()
	e.mu.Unlock()

	metric.Global().LeakTicks.WithLabelValues(PatternCache).Inc()
	observe(stats)
}

// Stop halts the ticker, waits for the tick goroutine to exit, then
// drops every entry. No tick can insert after cleanup has begun.
func (e *CacheEngine) Stop() StopResult {
	e.mu.Lock()
	if e.stopCh == nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StopResult{Message: "cache leak not running", Cleared: 0, Stats: stats}
	}
	stopCh, done := e.stopCh, e.done
	e.stopCh, e.done = nil, nil
	e.mu.Unlock()

	close(stopCh)
	<-done

	e.mu.Lock()
	cleared := len(e.entries)
	e.entries = make(map[int][]byte)
	stats := e.statsLocked()
	e.mu.Unlock()

	observe(stats)
	e.log.Info("cache leak stopped", "cleared_entries", cleared)
	return StopResult{Message: "cache leak stopped", Cleared: cleared, Stats: stats}
}

// Status implements Engine.
func (e *CacheEngine) Status() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *CacheEngine) statsLocked() Stats {
	count := len(e.entries)
	return Stats{
		Pattern:     PatternCache,
		Count:       count,
		EstimatedMB: round2(float64(count) * cacheEntryMB),
		Leaking:     e.stopCh != nil,
	}
}
