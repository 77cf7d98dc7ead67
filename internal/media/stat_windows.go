//go:build windows

package media

import (
	"io/fs"
	"syscall"
	"time"
)

// statTimes extracts the creation time from a Windows file attribute block.
func statTimes(info fs.FileInfo) []time.Time {
	attrs, ok := info.Sys().(*syscall.Win32FileAttributeData)
	if !ok {
		return nil
	}
	return []time.Time{time.Unix(0, attrs.CreationTime.Nanoseconds())}
}
