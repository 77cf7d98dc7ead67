// Package trash implements the reversible delete: files move into a trash
// directory and every move is recorded in a manifest so it can be undone.
package trash

import (
	"time"

	"mediasort/internal/model"
)

// Manifest persists trash runs and their entries.
type Manifest interface {
	CreateRun(id, operation string, startedAt time.Time) error
	FinishRun(id string, finishedAt time.Time) error
	ListRuns(limit int) ([]*model.TrashRun, error)

	AddEntry(e *model.TrashEntry) error
	ListEntries(runID string) ([]*model.TrashEntry, error)
	GetEntry(id string) (*model.TrashEntry, error)
	MarkRestored(id string, at time.Time) error

	Close() error
}
