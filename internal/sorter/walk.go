package sorter

import (
	"path/filepath"
	"strings"

	"mediasort/internal/media"
)

// walkAction tells the walk driver what to do after visiting a folder.
type walkAction int

const (
	actionContinue walkAction = iota
	actionSkipSubtree
	actionAbort
)

// walkFolders visits every unclassified folder under root in post-order,
// deepest first, and asks the decision source what to do with each one that
// still contains media. Year, month, backup and generated folders are never
// prompted; backup folders were already consolidated and the rest are
// considered correctly placed. Folders the user keeps or skips are recorded
// in skipped so the placement sweep leaves them alone.
//
// The traversal is iterative with an explicit stack: each frame is pushed
// unexpanded, expanded once to enqueue its children, and visited when popped
// a second time. That yields post-order without recursion.
func (s *Service) walkFolders(root string, skipped map[string]bool, stats *SortStats) walkAction {
	type frame struct {
		path     string
		expanded bool
	}
	stack := []frame{{path: root}}

	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		if !f.expanded {
			f.expanded = true
			if !s.fsm.IsDir(f.path) {
				stack = stack[:len(stack)-1]
				continue
			}
			entries, err := s.fsm.ListDir(f.path)
			if err != nil {
				s.logger.Warn("cannot list folder", "dir", f.path, "error", err)
				stack = stack[:len(stack)-1]
				continue
			}
			// Reverse so the stack pops children in name order.
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				if !e.IsDir {
					continue
				}
				switch s.types.ClassifyFolderName(e.Name) {
				case media.FolderYear, media.FolderMonth, media.FolderBackup, media.FolderGenerated:
					// Already in its final shape; files deeper inside
					// generated buckets are handled by the sweep.
					continue
				}
				stack = append(stack, frame{path: filepath.Join(f.path, e.Name)})
			}
			continue
		}

		path := stack[len(stack)-1].path
		stack = stack[:len(stack)-1]
		if path == root {
			continue
		}
		switch s.visitFolder(root, path, skipped, stats) {
		case actionAbort:
			return actionAbort
		case actionSkipSubtree:
			// The folder was kept, relocated or skipped wholesale; nothing
			// left on the stack belongs under it because children were
			// visited first, so just move on.
		}
	}
	return actionContinue
}

// visitFolder handles one unclassified folder. Folders without any media
// left are pruned if empty; folders with media are put to the decision
// source.
func (s *Service) visitFolder(root, path string, skipped map[string]bool, stats *SortStats) walkAction {
	if !s.fsm.IsDir(path) {
		return actionContinue
	}
	if !s.subtreeHasMedia(path, skipped) {
		// Empty of media. Remove it if nothing else lives there either;
		// a folder holding documents stays put.
		if err := s.fsm.RemoveDir(path); err == nil {
			s.logger.Debug("pruned folder empty of media", "dir", path)
			stats.Pruned++
		}
		return actionContinue
	}

	switch s.decider.DecideFolder(path) {
	case FolderKeep:
		if target, ok := s.decider.PickRelocationTarget(path); ok {
			s.relocateFolder(root, path, target, stats)
		}
		skipped[path] = true
		stats.Kept++
		return actionSkipSubtree
	case FolderSortInside:
		s.logger.Info("sorting folder in place", "dir", path)
		s.sweepFiles(path, path, skipped, stats)
		skipped[path] = true
		return actionSkipSubtree
	case FolderSortIntoYears:
		s.logger.Info("dispersing folder into tree", "dir", path)
		// Disperse right away so parent prompts see the emptied folder.
		s.sweepFiles(path, root, skipped, stats)
		return actionContinue
	case FolderSkip:
		skipped[path] = true
		return actionSkipSubtree
	default:
		return actionAbort
	}
}

// relocateFolder moves a kept folder wholesale into target, which may be
// outside root. The folder keeps its name; collisions abort the relocation.
func (s *Service) relocateFolder(root, path, target string, stats *SortStats) {
	if err := s.fsm.MkdirAll(target); err != nil {
		s.logger.Warn("cannot create relocation target", "dir", target, "error", err)
		return
	}
	dst := filepath.Join(target, filepath.Base(path))
	if s.fsm.Exists(dst) {
		s.logger.Warn("relocation target already exists, leaving folder in place", "dst", dst)
		return
	}
	if err := s.fsm.Move(path, dst); err != nil {
		s.logger.Warn("cannot relocate folder", "from", path, "to", dst, "error", err)
		return
	}
	s.logger.Info("relocated folder", "from", path, "to", dst)
	stats.Pruned += s.pruneEmpty(filepath.Dir(path), root)
}

// subtreeHasMedia reports whether any media file lives under dir, ignoring
// subtrees the user already kept or skipped.
func (s *Service) subtreeHasMedia(dir string, skipped map[string]bool) bool {
	stack := []string{dir}
	for len(stack) > 0 {
		d := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if skipped[d] {
			continue
		}
		entries, err := s.fsm.ListDir(d)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir {
				stack = append(stack, filepath.Join(d, e.Name))
				continue
			}
			if s.types.IsMedia(e.Name) {
				return true
			}
		}
	}
	return false
}

// sweepFiles is the placement pass: every media file under scan that is not
// already where it belongs is moved to its destination under targetRoot.
// Files inside kept or skipped folders and inside backup folders stay put;
// a file already sitting in its computed destination is counted as kept.
func (s *Service) sweepFiles(scan, targetRoot string, skipped map[string]bool, stats *SortStats) {
	stack := []string{scan}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if skipped[dir] || !s.fsm.IsDir(dir) {
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
				if s.types.ClassifyFolderName(e.Name) == media.FolderBackup {
					// Archived backups keep their remaining contents.
					continue
				}
				stack = append(stack, path)
				continue
			}
			if strings.HasPrefix(e.Name, "._") || !s.types.IsMedia(e.Name) {
				continue
			}
			// placeFile is a no-op that counts as kept when the file
			// already sits in its computed destination, which makes the
			// whole sweep idempotent.
			s.placeFile(path, s.destinationFor(path, targetRoot), targetRoot, stats)
		}
	}
}
