package heapsnap

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
	"github.com/yndnr/leaklab-go/internal/telemetry/metric"
)

// DefaultInterval is the capture interval used when Options.Interval
// is zero.
const DefaultInterval = 5 * time.Second

// WriteFunc produces one snapshot and returns its path. It exists so
// tests can substitute slow or failing writers.
type WriteFunc func(label, dir string) (string, error)

// Options configures an auto-snapshot job.
type Options struct {
	// Label prefixes each snapshot filename. Defaults to "snapshot".
	Label string

	// OutputDir receives the snapshot files. Defaults to DefaultDir().
	OutputDir string

	// Interval between captures. Defaults to DefaultInterval.
	Interval time.Duration

	// Immediate captures once at start time, before the first
	// interval elapses.
	Immediate bool

	// BeforeGC forces a garbage-collection pass before each capture.
	BeforeGC bool

	// OnAfterSnapshot, if set, is invoked after each successful
	// capture with the file path and its sequence index. It runs on
	// the job goroutine, so a capture is not considered settled until
	// the callback returns.
	OnAfterSnapshot func(path string, seq int)

	// WriteFn overrides the snapshot writer. Defaults to Write.
	WriteFn WriteFunc

	// Logger for per-attempt capture failures. Defaults to the
	// global logger.
	Logger logger.Logger
}

// DefaultOptions returns the standard auto-snapshot options:
// label "snapshot", 5s interval, immediate first capture, no forced GC.
func DefaultOptions() Options {
	return Options{
		Label:     DefaultLabel,
		Interval:  DefaultInterval,
		Immediate: true,
	}
}

func (o Options) normalized() Options {
	if o.Label == "" {
		o.Label = DefaultLabel
	}
	if o.OutputDir == "" {
		o.OutputDir = DefaultDir()
	}
	if o.Interval <= 0 {
		o.Interval = DefaultInterval
	}
	if o.WriteFn == nil {
		o.WriteFn = Write
	}
	if o.Logger == nil {
		o.Logger = logger.Default()
	}
	return o
}

// Job is a running auto-snapshot schedule. All captures, including the
// OnAfterSnapshot callback, run on a single goroutine, so snapshot
// writes never overlap even when a capture outlasts the interval.
type Job struct {
	opts Options

	mu    sync.Mutex
	seq   int
	files []string

	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	result   []string
}

// StartAuto begins periodic snapshot capture and returns the job
// handle. If ctx is already cancelled the job is born stopped and
// captures nothing; a later cancellation triggers Stop exactly once.
func StartAuto(ctx context.Context, opts Options) *Job {
	j := &Job{
		opts:   opts.normalized(),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}

	if ctx != nil && ctx.Err() != nil {
		j.stopOnce.Do(func() {
			close(j.stopCh)
			close(j.done)
		})
		return j
	}

	// The loop goroutine has not started yet, so this capture is
	// trivially serialized ahead of every tick.
	if j.opts.Immediate {
		j.capture()
	}

	go j.loop()

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				j.Stop()
			case <-j.stopCh:
			}
		}()
	}

	return j
}

func (j *Job) loop() {
	defer close(j.done)

	ticker := time.NewTicker(j.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopCh:
			return
		case <-ticker.C:
			j.capture()
		}
	}
}

// capture performs one serialized snapshot attempt. Failures are
// logged and counted; they never halt the schedule. The sequence
// counter advances only on success, keeping filenames gap-free.
func (j *Job) capture() {
	if j.opts.BeforeGC {
		runtime.GC()
	}

	j.mu.Lock()
	seq := j.seq
	j.mu.Unlock()

	label := fmt.Sprintf("%s-%04d", j.opts.Label, seq)
	path, err := j.opts.WriteFn(label, j.opts.OutputDir)
	if err != nil {
		metric.Global().SnapshotFailures.Inc()
		j.opts.Logger.Warn("heap snapshot capture failed",
			"label", label,
			"error", err)
		return
	}

	j.mu.Lock()
	j.seq = seq + 1
	j.files = append(j.files, path)
	j.mu.Unlock()

	size, _ := Size(path)
	metric.Global().ObserveSnapshot(size)

	if j.opts.OnAfterSnapshot != nil {
		j.opts.OnAfterSnapshot(path, seq)
	}
}

// Running reports whether the schedule is still active.
func (j *Job) Running() bool {
	select {
	case <-j.stopCh:
		return false
	default:
		return true
	}
}

// Interval returns the capture interval the job runs with.
func (j *Job) Interval() time.Duration {
	return j.opts.Interval
}

// Files returns a copy of the snapshot paths produced so far.
func (j *Job) Files() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.files))
	copy(out, j.files)
	return out
}

// Stop disables the schedule, waits for any in-flight capture to
// settle, and returns every path the job produced. It is idempotent:
// repeat calls return the same list without side effects.
func (j *Job) Stop() []string {
	j.stopOnce.Do(func() {
		close(j.stopCh)
		<-j.done
		j.result = j.Files()
	})
	return j.result
}
