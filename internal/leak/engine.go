package leak

import (
	"math"
	"sort"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
	"github.com/yndnr/leaklab-go/pkg/emitter"
)

// Pattern names, used as API path segments and metric labels.
const (
	PatternTimer   = "timer"
	PatternCache   = "cache"
	PatternClosure = "closure"
	PatternEvent   = "event"
	PatternGlobal  = "global"
)

// DefaultTickInterval is how often a leaking engine accumulates.
const DefaultTickInterval = time.Second

// Default payload sizes. Tests shrink these; the memory *estimates*
// reported by Status always use the fixed per-unit constants below
// regardless of the configured payload.
const (
	DefaultCachePayloadBytes    = 8 << 20
	DefaultClosurePayloadBytes  = 10 << 20
	DefaultListenerPayloadBytes = 8 << 20
	DefaultGlobalPayloadBytes   = 8 << 20
	timerTransientBytes         = 1 << 20
)

// Documented per-unit memory estimates in MB.
const (
	cacheEntryMB  = 8.1
	closureMB     = 10
	listenerMB    = 8
	globalSliceMB = 8
)

// Stats describes one engine's current state.
type Stats struct {
	Pattern     string  `json:"pattern"`
	Count       int     `json:"count"`
	EstimatedMB float64 `json:"estimated_mb"`
	Leaking     bool    `json:"is_leaking"`
}

// StartResult is returned by Engine.Start.
type StartResult struct {
	Message string `json:"message"`
	Stats   Stats  `json:"stats"`
}

// StopResult is returned by Engine.Stop.
type StopResult struct {
	Message string `json:"message"`
	Cleared int    `json:"cleared"`
	Stats   Stats  `json:"stats"`
}

// TriggerResult is returned by EventEngine.Trigger.
type TriggerResult struct {
	Message  string `json:"message"`
	Notified int    `json:"listeners_notified"`
}

// Engine is the shared contract of all five leak patterns.
type Engine interface {
	Pattern() string
	Start() StartResult
	Stop() StopResult
	Status() Stats
}

// Config tunes engine behavior. The zero value is usable: every field
// falls back to its default.
type Config struct {
	TickInterval         time.Duration
	CachePayloadBytes    int
	ClosurePayloadBytes  int
	ListenerPayloadBytes int
	GlobalPayloadBytes   int
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() Config {
	return Config{
		TickInterval:         DefaultTickInterval,
		CachePayloadBytes:    DefaultCachePayloadBytes,
		ClosurePayloadBytes:  DefaultClosurePayloadBytes,
		ListenerPayloadBytes: DefaultListenerPayloadBytes,
		GlobalPayloadBytes:   DefaultGlobalPayloadBytes,
	}
}

func (c Config) normalized() Config {
	if c.TickInterval <= 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.CachePayloadBytes <= 0 {
		c.CachePayloadBytes = DefaultCachePayloadBytes
	}
	if c.ClosurePayloadBytes <= 0 {
		c.ClosurePayloadBytes = DefaultClosurePayloadBytes
	}
	if c.ListenerPayloadBytes <= 0 {
		c.ListenerPayloadBytes = DefaultListenerPayloadBytes
	}
	if c.GlobalPayloadBytes <= 0 {
		c.GlobalPayloadBytes = DefaultGlobalPayloadBytes
	}
	return c
}

// Set holds one engine per pattern.
type Set struct {
	engines map[string]Engine
	event   *EventEngine
}

// NewSet builds the five engines.
func NewSet(cfg Config, log logger.Logger) *Set {
	cfg = cfg.normalized()
	if log == nil {
		log = logger.Default()
	}

	ev := NewEventEngine(cfg.TickInterval, cfg.ListenerPayloadBytes, emitter.New(), log)
	s := &Set{
		engines: map[string]Engine{
			PatternTimer:   NewTimerEngine(cfg.TickInterval, log),
			PatternCache:   NewCacheEngine(cfg.TickInterval, cfg.CachePayloadBytes, log),
			PatternClosure: NewClosureEngine(cfg.TickInterval, cfg.ClosurePayloadBytes, log),
			PatternEvent:   ev,
			PatternGlobal:  NewGlobalEngine(cfg.TickInterval, cfg.GlobalPayloadBytes, log),
		},
		event: ev,
	}
	return s
}

// Get returns the engine for the pattern, if it exists.
func (s *Set) Get(pattern string) (Engine, bool) {
	e, ok := s.engines[pattern]
	return e, ok
}

// Event returns the event-listener engine, which has the extra
// Trigger operation.
func (s *Set) Event() *EventEngine {
	return s.event
}

// Patterns returns the pattern names in sorted order.
func (s *Set) Patterns() []string {
	names := make([]string, 0, len(s.engines))
	for name := range s.engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Statuses returns the status of every engine, sorted by pattern.
func (s *Set) Statuses() []Stats {
	out := make([]Stats, 0, len(s.engines))
	for _, name := range s.Patterns() {
		out = append(out, s.engines[name].Status())
	}
	return out
}

// StopAll stops every engine. Idle engines are unaffected.
func (s *Set) StopAll() {
	for _, name := range s.Patterns() {
		s.engines[name].Stop()
	}
}

// touchPages writes one byte per page so the buffer is actually
// committed, not just reserved.
func touchPages(buf []byte) {
	for i := 0; i < len(buf); i += 4096 {
		buf[i] = 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func observe(s Stats) {
	metric.Global().ObserveLeak(s.Pattern, s.Count, s.EstimatedMB)
}
