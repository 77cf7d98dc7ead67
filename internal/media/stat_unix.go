//go:build unix && !darwin

package media

import (
	"io/fs"
	"syscall"
	"time"
)

// statTimes extracts the metadata-change time from a Unix stat structure.
// Birth time is not available on most Unix filesystems, so ctime stands in
// as the closest upper bound on the file's origin.
func statTimes(info fs.FileInfo) []time.Time {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil
	}
	return []time.Time{time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)}
}
