package sorter

import (
	"io"
	"time"
)

// Entry is a single directory entry as seen by the engine.
type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

// FilesystemManager abstracts the directory tree so the engine can be tested
// without touching the real filesystem. Implementations must keep individual
// operations atomic at the filesystem level; the engine itself is
// single-threaded for everything except read-only hashing.
type FilesystemManager interface {
	// ListDir returns the entries of a directory, sorted by name.
	ListDir(path string) ([]Entry, error)

	// Exists reports whether the path exists.
	Exists(path string) bool

	// IsDir reports whether the path exists and is a directory.
	IsDir(path string) bool

	// Move renames src to dst, falling back to copy+delete across devices.
	// It fails if dst already exists.
	Move(src, dst string) error

	// MkdirAll creates a directory and any missing parents.
	MkdirAll(path string) error

	// RemoveDir removes a directory. It fails if the directory is not empty.
	RemoveDir(path string) error

	// Open opens a file for reading.
	Open(path string) (io.ReadCloser, error)

	// Size returns the size of a regular file.
	Size(path string) (int64, error)

	// EarliestTimestamp resolves the file's earliest known timestamp.
	// It never fails; see media.EarliestTimestamp for the fallback chain.
	EarliestTimestamp(path string) time.Time
}
