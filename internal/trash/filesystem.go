package trash

import (
	"fmt"
	"path/filepath"

	"mediasort/internal/model"
	"mediasort/internal/sorter"
)

// FilesystemTrash moves files into a flat trash directory. Trashed files are
// named <entry-id>-<basename> so collisions are impossible and every file on
// disk maps back to exactly one manifest row.
type FilesystemTrash struct {
	dir      string
	manifest Manifest
	fsm      sorter.FilesystemManager
	clock    sorter.Clock
	ids      sorter.IDGenerator
	runID    string
}

// NewFilesystemTrash creates a trash rooted at dir, creating it if needed.
func NewFilesystemTrash(dir string, manifest Manifest, fsm sorter.FilesystemManager, clock sorter.Clock, ids sorter.IDGenerator) (*FilesystemTrash, error) {
	if err := fsm.MkdirAll(dir); err != nil {
		return nil, fmt.Errorf("creating trash directory: %w", err)
	}
	return &FilesystemTrash{
		dir:      dir,
		manifest: manifest,
		fsm:      fsm,
		clock:    clock,
		ids:      ids,
	}, nil
}

// Begin opens a new run. Every Put until Finish is attributed to it.
func (t *FilesystemTrash) Begin(operation string) error {
	id := t.ids.New()
	if err := t.manifest.CreateRun(id, operation, t.clock.Now()); err != nil {
		return err
	}
	t.runID = id
	return nil
}

// Finish closes the current run. Safe to call with no run open.
func (t *FilesystemTrash) Finish() error {
	if t.runID == "" {
		return nil
	}
	err := t.manifest.FinishRun(t.runID, t.clock.Now())
	t.runID = ""
	return err
}

// Put moves a file into the trash and records the move.
func (t *FilesystemTrash) Put(path string) error {
	if t.runID == "" {
		return fmt.Errorf("trash: no active run")
	}
	size, err := t.fsm.Size(path)
	if err != nil {
		return fmt.Errorf("sizing file for trash: %w", err)
	}
	id := t.ids.New()
	dest := filepath.Join(t.dir, id+"-"+filepath.Base(path))
	if err := t.fsm.Move(path, dest); err != nil {
		return fmt.Errorf("moving to trash: %w", err)
	}
	entry := &model.TrashEntry{
		ID:           id,
		RunID:        t.runID,
		OriginalPath: path,
		TrashedPath:  dest,
		Size:         size,
		TrashedAt:    t.clock.Now(),
	}
	if err := t.manifest.AddEntry(entry); err != nil {
		// The manifest row is what makes the file recoverable. Without it,
		// put the file back rather than strand it in the trash.
		if undo := t.fsm.Move(dest, path); undo != nil {
			return fmt.Errorf("recording trash entry: %w (file left at %s)", err, dest)
		}
		return fmt.Errorf("recording trash entry: %w", err)
	}
	return nil
}

// Restore moves a single entry back to its original path. It refuses to
// overwrite anything that now occupies that path.
func (t *FilesystemTrash) Restore(entryID string) error {
	e, err := t.manifest.GetEntry(entryID)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("trash entry not found: %s", entryID)
	}
	if e.Restored() {
		return fmt.Errorf("trash entry already restored: %s", entryID)
	}
	if err := t.fsm.MkdirAll(filepath.Dir(e.OriginalPath)); err != nil {
		return fmt.Errorf("recreating original directory: %w", err)
	}
	if err := t.fsm.Move(e.TrashedPath, e.OriginalPath); err != nil {
		return fmt.Errorf("restoring file: %w", err)
	}
	return t.manifest.MarkRestored(e.ID, t.clock.Now())
}

// RestoreRun restores every unrestored entry of a run, continuing past
// individual failures.
func (t *FilesystemTrash) RestoreRun(runID string) (restored int, err error) {
	entries, err := t.manifest.ListEntries(runID)
	if err != nil {
		return 0, err
	}
	failed := 0
	for _, e := range entries {
		if e.Restored() {
			continue
		}
		if rerr := t.Restore(e.ID); rerr != nil {
			failed++
			err = rerr
			continue
		}
		restored++
	}
	if failed > 0 {
		return restored, fmt.Errorf("%d of %d entries failed to restore, last error: %w",
			failed, failed+restored, err)
	}
	return restored, nil
}

// ListRuns returns the most recent runs, newest first.
func (t *FilesystemTrash) ListRuns(limit int) ([]*model.TrashRun, error) {
	return t.manifest.ListRuns(limit)
}

// ListEntries returns a run's entries in the order they were trashed.
func (t *FilesystemTrash) ListEntries(runID string) ([]*model.TrashEntry, error) {
	return t.manifest.ListEntries(runID)
}

// Compile-time check
var _ sorter.Trash = (*FilesystemTrash)(nil)
