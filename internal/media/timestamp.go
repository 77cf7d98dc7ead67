package media

import (
	"os"
	"path/filepath"
	"time"
)

// EarliestTimestamp returns the best estimate of when the file at path was
// created: the minimum of its modification time and, where the platform
// exposes one, its creation (or metadata-change) time.
//
// It never fails. If the path has already vanished (e.g. a macOS resource
// fork companion removed mid-pass) it falls back to the parent directory's
// modification time, and if the parent is gone too, to the current time.
// Callers invoke it opportunistically while the tree is being mutated.
func EarliestTimestamp(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		parent, perr := os.Stat(filepath.Dir(path))
		if perr != nil {
			return time.Now()
		}
		return parent.ModTime()
	}

	earliest := info.ModTime()
	for _, t := range statTimes(info) {
		if !t.IsZero() && t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}
