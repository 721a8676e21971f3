package leak

import (
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

// leakyTimer is one never-cancelled recurring timer. Its callback
// allocates a transient buffer that is not retained; the leak is the
// timer handle and its goroutine, not the buffer.
type leakyTimer struct {
	stopCh chan struct{}
	done   chan struct{}
}

func startLeakyTimer(interval time.Duration) *leakyTimer {
	lt := &leakyTimer{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(lt.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-lt.stopCh:
				return
			case <-ticker.C:
				buf := make([]byte, timerTransientBytes)
				touchPages(buf)
			}
		}
	}()
	return lt
}

func (lt *leakyTimer) cancel() {
	close(lt.stopCh)
	<-lt.done
}

// TimerEngine simulates a leak of timer handles: each successful Start
// installs one recurring timer that is never cancelled until Stop.
type TimerEngine struct {
	mu       sync.Mutex
	log      logger.Logger
	interval time.Duration
	leaking  bool
	handles  []*leakyTimer
}

// NewTimerEngine creates an idle timer engine.
func NewTimerEngine(interval time.Duration, log logger.Logger) *TimerEngine {
	return &TimerEngine{
		log:      log,
		interval: interval,
	}
}

// Pattern implements Engine.
func (e *TimerEngine) Pattern() string { return PatternTimer }

// Start installs one leaking timer. The engine deliberately holds a
// single live handle at a time: a second Start without an intervening
// Stop reports "already running" instead of stacking another ticker,
// so handles accumulate per start/stop cycle, not per call.
func (e *TimerEngine) Start() StartResult {
	e.mu.Lock()
	if e.leaking {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StartResult{Message: "timer leak already running", Stats: stats}
	}
	e.leaking = true
	e.handles = append(e.handles, startLeakyTimer(e.interval))
	stats := e.statsLocked()
	e.mu.Unlock()

	observe(stats)
	e.log.Info("timer leak started", "active_timers", stats.Count)
	return StartResult{Message: "timer leak started", Stats: stats}
}

// Stop cancels every stored timer handle and empties the slice.
func (e *TimerEngine) Stop() StopResult {
	e.mu.Lock()
	if !e.leaking && len(e.handles) == 0 {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StopResult{Message: "timer leak not running", Cleared: 0, Stats: stats}
	}
	e.leaking = false
	handles := e.handles
	e.handles = nil
	e.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}

	stats := e.Status()
	observe(stats)
	e.log.Info("timer leak stopped", "cleared", len(handles))
	return StopResult{Message: "timer leak stopped", Cleared: len(handles), Stats: stats}
}

// Status implements Engine. The timer pattern has no per-unit memory
// estimate; the leak is the handles themselves.
func (e *TimerEngine) Status() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *TimerEngine) statsLocked() Stats {
	return Stats{
		Pattern: PatternTimer,
		Count:   len(e.handles),
		Leaking: e.leaking,
	}
}
