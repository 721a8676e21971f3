package heapsnap

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// SnapEvery captures exactly times sequential snapshots separated by
// the configured interval, returning the paths in capture order.
// Captures never overlap: each write completes before the next delay
// begins. The first failure aborts the batch; the paths captured so
// far are returned alongside the error.
func SnapEvery(ctx context.Context, times int, opts Options) ([]string, error) {
	if times <= 0 {
		return nil, nil
	}
	o := opts.normalized()
	if ctx == nil {
		ctx = context.Background()
	}

	paths := make([]string, 0, times)
	for i := 0; i < times; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		if o.BeforeGC {
			runtime.GC()
		}

		label := fmt.Sprintf("%s-%04d", o.Label, i)
		path, err := o.WriteFn(label, o.OutputDir)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)

		if i == times-1 {
			break
		}
		select {
		case <-ctx.Done():
			return paths, ctx.Err()
		case <-time.After(o.Interval):
		}
	}
	return paths, nil
}
