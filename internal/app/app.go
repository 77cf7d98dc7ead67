package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mediasort/internal/config"
	"mediasort/internal/database"
	"mediasort/internal/decide"
	"mediasort/internal/fs"
	"mediasort/internal/media"
	"mediasort/internal/model"
	"mediasort/internal/sorter"
	"mediasort/internal/trash"
)

// MediasortApp is the application layer between the CLI and the sorting
// engine. It constructs all dependencies from config, exposes high-level
// operations that accept raw string paths, and manages the manifest
// lifecycle on Close.
type MediasortApp struct {
	cfg      *config.Config
	fsmgr    *fs.OSFilesystemManager
	manifest *database.SQLiteManifest
	trash    *trash.FilesystemTrash
	service  *sorter.Service
	logFile  *os.File
}

// NewMediasortApp creates a fully wired MediasortApp from the given config.
// The caller must call Close when done.
func NewMediasortApp(cfg *config.Config) (*MediasortApp, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)

	manifest, err := database.NewManifestFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating trash manifest: %w", err)
	}

	if err := manifest.CheckMigrations(); err != nil {
		manifest.Close()
		return nil, fmt.Errorf("manifest schema out of date: %w", err)
	}

	tr, err := trash.NewTrashFromConfig(cfg.Trash, manifest, fsmgr, sorter.RealClock{}, sorter.UUIDGenerator{})
	if err != nil {
		manifest.Close()
		return nil, fmt.Errorf("creating trash: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		manifest.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	types := media.NewTypes(
		cfg.Extensions.Images,
		cfg.Extensions.Videos,
		cfg.Extensions.Sidecars,
		cfg.Extensions.SidecarNames,
		cfg.GeneratedNames(),
	)
	buckets := sorter.Buckets{
		Screenshots: cfg.Buckets.Screenshots,
		Recordings:  cfg.Buckets.Recordings,
		Memes:       cfg.Buckets.Memes,
	}

	svc := sorter.NewService(
		types,
		media.NewClassifier(types),
		fsmgr,
		tr,
		decide.NewTerminal(),
		&slogAdapter{l: logger},
		buckets,
		cfg.Hashing.Workers,
	)

	return &MediasortApp{
		cfg:      cfg,
		fsmgr:    fsmgr,
		manifest: manifest,
		trash:    tr,
		service:  svc,
		logFile:  logFile,
	}, nil
}

// resolveRoot makes the tree root absolute and merges the root's own ignore
// file into the filesystem manager, so per-tree patterns apply alongside the
// configured ones.
func (a *MediasortApp) resolveRoot(rawRoot string) (string, error) {
	root, err := filepath.Abs(rawRoot)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	if err := a.fsmgr.LoadIgnoreFile(root); err != nil {
		return "", fmt.Errorf("reading ignore file: %w", err)
	}
	return root, nil
}

// withRun brackets a mutating operation in a trash run so every file the
// engine discards during it can be restored as a unit.
func (a *MediasortApp) withRun(operation string, fn func() error) error {
	if err := a.trash.Begin(operation); err != nil {
		return fmt.Errorf("opening trash run: %w", err)
	}
	err := fn()
	if ferr := a.trash.Finish(); err == nil && ferr != nil {
		err = fmt.Errorf("closing trash run: %w", ferr)
	}
	return err
}

// Sort runs the full sorting pipeline over the given tree.
func (a *MediasortApp) Sort(rawRoot string) (*sorter.SortStats, error) {
	root, err := a.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}
	var stats *sorter.SortStats
	err = a.withRun("sort", func() error {
		var serr error
		stats, serr = a.service.Sort(root)
		return serr
	})
	return stats, err
}

// Dedup finds content-identical files under the given tree and resolves each
// group interactively.
func (a *MediasortApp) Dedup(rawRoot string) (*sorter.DupStats, error) {
	root, err := a.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}
	var stats *sorter.DupStats
	err = a.withRun("dedup", func() error {
		var serr error
		stats, serr = a.service.Dedup(root)
		return serr
	})
	return stats, err
}

// ListDuplicates finds content-identical files under the given tree without
// touching anything.
func (a *MediasortApp) ListDuplicates(rawRoot string) ([]sorter.DuplicateGroup, *sorter.DupStats, error) {
	root, err := a.resolveRoot(rawRoot)
	if err != nil {
		return nil, nil, err
	}
	stats := &sorter.DupStats{}
	groups, err := a.service.FindDuplicates(root, stats)
	return groups, stats, err
}

// ReviewImages walks the image folders under the given tree and asks about
// each picture.
func (a *MediasortApp) ReviewImages(rawRoot string) (*sorter.ReviewStats, error) {
	root, err := a.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}
	var stats *sorter.ReviewStats
	err = a.withRun("review-images", func() error {
		var serr error
		stats, serr = a.service.ReviewImages(root)
		return serr
	})
	return stats, err
}

// ReviewLive asks about each Live Photo video clip under the given tree.
func (a *MediasortApp) ReviewLive(rawRoot string) (*sorter.ReviewStats, error) {
	root, err := a.resolveRoot(rawRoot)
	if err != nil {
		return nil, err
	}
	var stats *sorter.ReviewStats
	err = a.withRun("review-live", func() error {
		var serr error
		stats, serr = a.service.ReviewLive(root)
		return serr
	})
	return stats, err
}

// InspectReport extends the engine's view of a file with the capture time
// embedded in the file itself, when one can be read.
type InspectReport struct {
	sorter.Report
	CaptureTime string
}

// Inspect explains how the engine sees one file relative to a sort root.
func (a *MediasortApp) Inspect(rawRoot, rawPath string) (*InspectReport, error) {
	root, err := filepath.Abs(rawRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	path, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if !a.fsmgr.Exists(path) {
		return nil, fmt.Errorf("no such file: %s", path)
	}

	report := &InspectReport{Report: a.service.Inspect(root, path)}
	if ts, err := media.ExifDateTime(path); err == nil {
		report.CaptureTime = ts.Format("2006-01-02 15:04:05")
	}
	return report, nil
}

// TrashRuns returns the most recent trash runs, newest first.
func (a *MediasortApp) TrashRuns(limit int) ([]*model.TrashRun, error) {
	return a.trash.ListRuns(limit)
}

// TrashEntries returns the entries recorded under one trash run.
func (a *MediasortApp) TrashEntries(runID string) ([]*model.TrashEntry, error) {
	return a.trash.ListEntries(runID)
}

// RestoreRun puts every unrestored file of a run back where it came from.
// Returns the number of files restored.
func (a *MediasortApp) RestoreRun(runID string) (int, error) {
	return a.trash.RestoreRun(runID)
}

// RestoreEntry puts a single trashed file back where it came from.
func (a *MediasortApp) RestoreEntry(entryID string) error {
	return a.trash.Restore(entryID)
}

// Close releases the manifest and the log file.
func (a *MediasortApp) Close() error {
	var firstErr error
	if err := a.manifest.Close(); err != nil {
		firstErr = fmt.Errorf("closing manifest: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
