package sorter

import (
	"fmt"
	"path/filepath"
	"strings"

	"mediasort/internal/media"
)

// Classifier decides what a media file is from its content and name.
type Classifier interface {
	Kind(path string) media.Kind
}

// Buckets names the special top-level destination folders.
type Buckets struct {
	Screenshots string
	Recordings  string
	Memes       string
}

// Service implements the sorting, consolidation, deduplication and review
// operations over a media tree. All mutation is sequential; only content
// hashing inside FindDuplicates fans out to workers.
type Service struct {
	types   media.Types
	cls     Classifier
	fsm     FilesystemManager
	trash   Trash
	decider DecisionSource
	logger  Logger
	buckets Buckets
	workers int
}

func NewService(
	types media.Types,
	cls Classifier,
	fsm FilesystemManager,
	trash Trash,
	decider DecisionSource,
	logger Logger,
	buckets Buckets,
	hashWorkers int,
) *Service {
	return &Service{
		types:   types,
		cls:     cls,
		fsm:     fsm,
		trash:   trash,
		decider: decider,
		logger:  logger,
		buckets: buckets,
		workers: hashWorkers,
	}
}

// SortStats summarizes a Sort run.
type SortStats struct {
	Moved     int
	Kept      int
	Skipped   int
	Sidecars  int
	Pruned    int
	Backups   int
	Dispersed int
	Aborted   bool
}

// Sort runs the full pipeline over root: sidecar reclamation, backup folder
// consolidation, the interactive folder walk, and finally the placement sweep
// for loose files. A quit answer stops the run cleanly with Aborted set.
func (s *Service) Sort(root string) (*SortStats, error) {
	if !s.fsm.IsDir(root) {
		return nil, fmt.Errorf("sort: not a directory: %s", root)
	}
	root = filepath.Clean(root)
	stats := &SortStats{}

	s.logger.Info("sort started", "root", root)
	s.reclaimSidecars(root, stats)
	s.consolidateBackups(root, stats)

	skipped := map[string]bool{}
	if s.walkFolders(root, skipped, stats) == actionAbort {
		stats.Aborted = true
		s.logger.Info("sort aborted by user", "root", root)
		return stats, nil
	}
	s.sweepFiles(root, root, skipped, stats)

	s.logger.Info("sort finished",
		"moved", stats.Moved, "kept", stats.Kept,
		"skipped", stats.Skipped, "sidecars", stats.Sidecars,
		"pruned", stats.Pruned, "backups", stats.Backups)
	return stats, nil
}

// destinationFor returns the directory a media file belongs in, relative to
// targetRoot. Screenshots and screen recordings go to their buckets; plain
// media goes to <year>/<month> derived from the earliest timestamp.
func (s *Service) destinationFor(path, targetRoot string) string {
	switch s.cls.Kind(path) {
	case media.KindScreenshot:
		return filepath.Join(targetRoot, s.buckets.Screenshots)
	case media.KindScreenRecording:
		return filepath.Join(targetRoot, s.buckets.Recordings)
	default:
		ts := s.fsm.EarliestTimestamp(path)
		month := fmt.Sprintf("%02d-%s", int(ts.Month()), ts.Month().String())
		return filepath.Join(targetRoot, fmt.Sprintf("%04d", ts.Year()), month)
	}
}

// placeFile moves path into destDir, creating it if needed and de-colliding
// the name with a numeric suffix. Directories emptied by the move are pruned
// up to stopRoot. Failures are logged and counted, never fatal.
func (s *Service) placeFile(path, destDir, stopRoot string, stats *SortStats) {
	if filepath.Dir(path) == destDir {
		stats.Kept++
		return
	}
	if err := s.fsm.MkdirAll(destDir); err != nil {
		s.logger.Warn("cannot create destination, skipping file", "dir", destDir, "error", err)
		stats.Skipped++
		return
	}
	dst := s.uniqueDest(destDir, filepath.Base(path))
	if err := s.fsm.Move(path, dst); err != nil {
		s.logger.Warn("cannot move file, skipping", "from", path, "to", dst, "error", err)
		stats.Skipped++
		return
	}
	s.logger.Debug("moved", "from", path, "to", dst)
	stats.Moved++
	stats.Pruned += s.pruneEmpty(filepath.Dir(path), stopRoot)
}

// uniqueDest returns destDir/name, or destDir/stem_N.ext for the smallest N
// that does not collide with an existing file.
func (s *Service) uniqueDest(destDir, name string) string {
	dst := filepath.Join(destDir, name)
	if !s.fsm.Exists(dst) {
		return dst
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		dst = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !s.fsm.Exists(dst) {
			return dst
		}
	}
}

// pruneEmpty removes dir if it is empty, then walks up toward stopRoot
// removing each emptied parent. It stops at the first non-empty directory
// and never removes stopRoot itself. Returns the number of removals.
func (s *Service) pruneEmpty(dir, stopRoot string) int {
	n := 0
	for dir != stopRoot && strings.HasPrefix(dir, stopRoot+string(filepath.Separator)) {
		if err := s.fsm.RemoveDir(dir); err != nil {
			break
		}
		s.logger.Debug("pruned empty folder", "dir", dir)
		n++
		dir = filepath.Dir(dir)
	}
	return n
}

// reclaimSidecars trashes editing sidecars and OS metadata files everywhere
// under root, pruning folders the removals empty out.
func (s *Service) reclaimSidecars(root string, stats *SortStats) {
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !s.fsm.IsDir(dir) {
			// Already pruned away by an earlier removal.
			continue
		}
		entries, err := s.fsm.ListDir(dir)
		if err != nil {
			s.logger.Warn("cannot list folder", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name)
			if e.IsDir {
				stack = append(stack, path)
				continue
			}
			if !s.types.IsSidecar(e.Name) {
				continue
			}
			if err := s.trash.Put(path); err != nil {
				s.logger.Warn("cannot trash sidecar", "path", path, "error", err)
				stats.Skipped++
				continue
			}
			s.logger.Debug("trashed sidecar", "path", path)
			stats.Sidecars++
		}
		if dir != root {
			stats.Pruned += s.pruneEmpty(dir, root)
		}
	}
}
