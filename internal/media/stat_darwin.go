//go:build darwin

package media

import (
	"io/fs"
	"syscall"
	"time"
)

// statTimes extracts the birth time from a Darwin stat structure.
func statTimes(info fs.FileInfo) []time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	return []time.Time{time.Unix(stat.Birthtimespec.Sec, stat.Birthtimespec.Nsec)}
}
