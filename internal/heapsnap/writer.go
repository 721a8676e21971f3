package heapsnap

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"sort"
	"strings"
	"time"

	"github.com/yndnr/leaklab-go/internal/telemetry/logger"
)

const (
	// DefaultLabel is used when the caller passes an empty label.
	DefaultLabel = "snapshot"

	// DefaultDirName is the snapshot directory created under the
	// process working directory when no directory is given.
	DefaultDirName = "heapdumps"

	// FileExtension marks snapshot artifacts on disk.
	FileExtension = ".heapsnapshot"
)

var (
	// ErrDirCreate indicates the output directory could not be created.
	// The snapshot write is not attempted.
	ErrDirCreate = errors.New("heapsnap: create output dir")

	// ErrWrite indicates the heap-snapshot primitive failed.
	ErrWrite = errors.New("heapsnap: write snapshot")

	// ErrStat indicates a snapshot file could not be stat'ed.
	ErrStat = errors.New("heapsnap: stat snapshot")

	// ErrList indicates the snapshot directory could not be listed.
	ErrList = errors.New("heapsnap: list snapshots")
)

// DefaultDir returns the default snapshot directory, <cwd>/heapdumps.
func DefaultDir() string {
	return filepath.Join(".", DefaultDirName)
}

// Timestamp formats t as a filesystem-safe UTC timestamp. Colons and
// periods are replaced so the result sorts lexicographically in
// chronological order.
func Timestamp(t time.Time) string {
	ts := t.UTC().Format("2006-01-02T15:04:05.000Z")
	ts = strings.ReplaceAll(ts, ":", "-")
	return strings.ReplaceAll(ts, ".", "-")
}

// Write captures one heap snapshot into dir and returns the file path.
// An empty label defaults to "snapshot"; an empty dir defaults to
// DefaultDir(). The directory is created recursively if absent.
func Write(label, dir string) (string, error) {
	if label == "" {
		label = DefaultLabel
	}
	if dir == "" {
		dir = DefaultDir()
	}

	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirCreate, err)
	}

	path := filepath.Join(dir, label+"-"+Timestamp(time.Now())+FileExtension)
	if err := capture(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWrite, err)
	}

	logger.Info("heap snapshot written", "path", path)
	return path, nil
}

// capture writes the heap profile to the exact path. A panic from the
// underlying primitive is converted to an error; a non-error panic
// value is substituted with a generic message.
func capture(path string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = errors.New("unknown error occurred")
			}
		}
	}()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return pprof.Lookup("heap").WriteTo(f, 0)
}

// Size returns the size in bytes of a snapshot file.
func Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStat, err)
	}
	return info.Size(), nil
}

// List returns the snapshot files in dir, sorted lexicographically
// (chronological, given the timestamp naming scheme). A missing
// directory yields an empty result, not an error.
func List(dir string) ([]string, error) {
	if dir == "" {
		dir = DefaultDir()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrList, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), FileExtension) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
