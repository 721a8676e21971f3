package leak

import (
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
	"github.com/yndnr/leaklab-go/pkg/emitter"
)

// LeakEventName is the event every leaked listener subscribes to.
const LeakEventName = "leak:data"

// EventEngine simulates listener leaks: every tick registers one more
// listener (capturing a fresh payload) on a shared emitter, and nobody
// ever unsubscribes. The emitter's listener count is the accumulator.
type EventEngine struct {
	mu       sync.Mutex
	log      logger.Logger
	interval time.Duration
	payload  int
	emitter  *emitter.Emitter

	stopCh chan struct{}
	done   chan struct{}
}

// NewEventEngine creates an idle event-listener engine on the given
// shared emitter.
func NewEventEngine(interval time.Duration, payloadBytes int, em *emitter.Emitter, log logger.Logger) *EventEngine {
	return &EventEngine{
		log:      log,
		interval: interval,
		payload:  payloadBytes,
		emitter:  em,
	}
}

// Pattern implements Engine.
func (e *EventEngine) Pattern() string { return PatternEvent }

// Emitter exposes the shared emitter, mainly for tests asserting that
// cleanup really deregisters every listener.
func (e *EventEngine) Emitter() *emitter.Emitter { return e.emitter }

// Start begins registering one listener per tick.
func (e *EventEngine) Start() StartResult {
	e.mu.Lock()
	if e.stopCh != nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StartResult{Message: "event listener leak already running", Stats: stats}
	}
	stopCh := make(chan struct{})
	done := make(chan struct{})
	e.stopCh, e.done = stopCh, done
	stats := e.statsLocked()
	e.mu.Unlock()

	go e.run(stopCh, done)

	observe(stats)
	e.log.Info("event listener leak started")
	return StartResult{Message: "event listener leak started", Stats: stats}
}

func (e *EventEngine) run(stopCh, done chan struct{}) {
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

func (e *EventEngine) tick() {
	e.mu.Lock()
	if e.stopCh == nil {
		e.mu.Unlock()
		return
	}
	buf := make([]byte, e.payload)
	touchPages(buf)
	log := e.log
	e.emitter.On(LeakEventName, func() {
		// Touch the captured payload so the listener genuinely
		// retains it.
		log.Debug("leak listener notified", "payload_bytes", len(buf))
	})
	stats := e.statsLocked()
	e.mu.Unlock()

	metric.Global().LeakTicks.WithLabelValues(PatternEvent).Inc()
	observe(stats)
}

// Trigger synchronously notifies every registered listener and returns
// how many were invoked. The accumulator is unchanged.
func (e *EventEngine) Trigger() TriggerResult {
	n := e.emitter.Emit(LeakEventName)
	return TriggerResult{Message: "listeners notified", Notified: n}
}

// Stop halts the ticker, waits for the tick goroutine to exit, then
// removes every listener for the leak event.
func (e *EventEngine) Stop() StopResult {
	e.mu.Lock()
	if e.stopCh == nil {
		stats := e.statsLocked()
		e.mu.Unlock()
		return StopResult{Message: "event listener leak not running", Cleared: 0, Stats: stats}
	}
	stopCh, done := e.stopCh, e.done
	e.stopCh, e.done = nil, nil
	e.mu.Unlock()

	close(stopCh)
	<-done

	cleared := e.emitter.RemoveAllListeners(LeakEventName)
	stats := e.Status()

	observe(stats)
	e.log.Info("event listener leak stopped", "cleared_listeners", cleared)
	return StopResult{Message: "event listener leak stopped", Cleared: cleared, Stats: stats}
}

// Status implements Engine.
func (e *EventEngine) Status() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.statsLocked()
}

func (e *EventEngine) statsLocked() Stats {
	count := e.emitter.ListenerCount(LeakEventName)
	return Stats{
		Pattern:     PatternEvent,
		Count:       count,
		EstimatedMB: float64(count) * listenerMB,
		Leaking:     e.stopCh != nil,
	}
}
