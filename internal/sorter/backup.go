package sorter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mediasort/internal/media"
)

// consolidateBackups locates every folder under root whose name matches the
// backup grammar and consolidates each one: files that belong to the backup's
// inferred date stay, everything else is dispersed into the main tree, and
// the folder itself is archived under its year. Deepest folders go first so
// a backup nested inside another is settled before its parent.
func (s *Service) consolidateBackups(root string, stats *SortStats) {
	backups := s.findBackupFolders(root)
	sort.Slice(backups, func(i, j int) bool {
		di := strings.Count(backups[i], string(filepath.Separator))
		dj := strings.Count(backups[j], string(filepath.Separator))
		if di != dj {
			return di > dj
		}
		return backups[i] < backups[j]
	})
	for _, folder := range backups {
		s.consolidateOne(root, folder, stats)
	}
}

// findBackupFolders collects every directory under root classified as a
// backup folder by name.
func (s *Service) findBackupFolders(root string) []string {
	var found []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entries, err := s.fsm.ListDir(dir)
		if err != nil {
			s.logger.Warn("cannot list folder", "dir", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if !e.IsDir {
				continue
			}
			path := filepath.Join(dir, e.Name)
			if s.types.ClassifyFolderName(e.Name) == media.FolderBackup {
				found = append(found, path)
			}
			stack = append(stack, path)
		}
	}
	return found
}

// consolidateOne processes a single backup folder. Screenshots and
// recordings among its direct children always leave for their buckets.
// Plain media whose resolved date matches the folder's inferred date stays;
// the rest disperses by its own timestamp. With a date the folder is then
// archived under root/<year>; without one it should be empty and is removed.
func (s *Service) consolidateOne(root, folder string, stats *SortStats) {
	if !s.fsm.IsDir(folder) {
		return
	}
	inferred, dated := s.InferBackupDate(folder)
	if dated {
		s.logger.Info("consolidating backup folder", "dir", folder, "date", inferred.String())
	} else {
		s.logger.Info("dispersing undated backup folder", "dir", folder)
	}

	entries, err := s.fsm.ListDir(folder)
	if err != nil {
		s.logger.Warn("cannot list backup folder", "dir", folder, "error", err)
		return
	}
	for _, e := range entries {
		if e.IsDir || !s.types.IsMedia(e.Name) {
			continue
		}
		path := filepath.Join(folder, e.Name)
		switch s.cls.Kind(path) {
		case media.KindScreenshot:
			s.placeFile(path, filepath.Join(root, s.buckets.Screenshots), root, stats)
		case media.KindScreenRecording:
			s.placeFile(path, filepath.Join(root, s.buckets.Recordings), root, stats)
		default:
			date := media.DateOf(s.fsm.EarliestTimestamp(path))
			if dated && date == inferred {
				stats.Kept++
				continue
			}
			s.placeFile(path, s.destinationFor(path, root), root, stats)
			stats.Dispersed++
		}
	}

	if !dated {
		// The last dispersal usually prunes the emptied shell already.
		if s.fsm.IsDir(folder) {
			if err := s.fsm.RemoveDir(folder); err != nil {
				s.logger.Warn("undated backup folder not empty, leaving in place", "dir", folder)
				return
			}
			stats.Pruned++
		}
		stats.Pruned += s.pruneEmpty(filepath.Dir(folder), root)
		return
	}

	yearDir := filepath.Join(root, fmt.Sprintf("%04d", inferred.Year))
	if filepath.Dir(folder) == yearDir {
		stats.Backups++
		return
	}
	if err := s.fsm.MkdirAll(yearDir); err != nil {
		s.logger.Warn("cannot create year folder for backup", "dir", yearDir, "error", err)
		return
	}
	dst := s.uniqueFolderDest(yearDir, filepath.Base(folder))
	if err := s.fsm.Move(folder, dst); err != nil {
		s.logger.Warn("cannot archive backup folder", "from", folder, "to", dst, "error", err)
		return
	}
	s.logger.Info("archived backup folder", "from", folder, "to", dst)
	stats.Backups++
	stats.Pruned += s.pruneEmpty(filepath.Dir(folder), root)
}

// uniqueFolderDest works like uniqueDest but for directories, where the
// whole name gets the suffix.
func (s *Service) uniqueFolderDest(parent, name string) string {
	dst := filepath.Join(parent, name)
	if !s.fsm.Exists(dst) {
		return dst
	}
	for i := 1; ; i++ {
		dst = filepath.Join(parent, fmt.Sprintf("%s_%d", name, i))
		if !s.fsm.Exists(dst) {
			return dst
		}
	}
}

// InferBackupDate resolves the calendar date a backup folder represents.
// A name parsed at day precision is authoritative. A month-precision name
// needs a majority vote: the timestamps of the folder's direct media
// children are tallied, restricted to dates inside the named month, and the
// most frequent date wins only if its count exceeds half of all direct media
// children. Unparseable names and failed votes yield no date.
func (s *Service) InferBackupDate(folder string) (media.Date, bool) {
	bd, ok := media.ParseBackupDate(filepath.Base(folder))
	if !ok {
		return media.Date{}, false
	}
	if bd.DayKnown {
		return bd.Date, true
	}

	entries, err := s.fsm.ListDir(folder)
	if err != nil {
		return media.Date{}, false
	}
	counts := map[media.Date]int{}
	total := 0
	for _, e := range entries {
		if e.IsDir || !s.types.IsMedia(e.Name) {
			continue
		}
		total++
		d := media.DateOf(s.fsm.EarliestTimestamp(filepath.Join(folder, e.Name)))
		if d.Year == bd.Date.Year && d.Month == bd.Date.Month {
			counts[d]++
		}
	}
	var best media.Date
	bestN := 0
	for d, n := range counts {
		if n > bestN {
			best, bestN = d, n
		}
	}
	// Strict majority over every direct media child. At most one date can
	// clear that bar, so the winner is unambiguous.
	if total > 0 && bestN*2 > total {
		return best, true
	}
	return media.Date{}, false
}
