package model

import "time"

// TrashRun groups the removals of one engine invocation so they can be
// listed and restored together.
type TrashRun struct {
	ID         string // UUID
	Operation  string // "sort", "dedup", "review", "live"
	StartedAt  time.Time
	FinishedAt *time.Time // Nil while the run is still open
}

// TrashEntry records one reversible removal: where the file came from and
// where it sits inside the trash directory.
type TrashEntry struct {
	ID           string // UUID, also the prefix of the trashed file's name
	RunID        string // Foreign key to TrashRun
	OriginalPath string // Absolute path the file was removed from
	TrashedPath  string // Absolute path inside the trash directory
	Size         int64  // File size in bytes at removal time
	TrashedAt    time.Time
	RestoredAt   *time.Time // Nil until the entry is restored
}

// Restored reports whether the entry has already been put back.
func (e *TrashEntry) Restored() bool {
	return e.RestoredAt != nil
}
