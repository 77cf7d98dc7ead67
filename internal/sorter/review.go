package sorter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mediasort/internal/media"
)

// ReviewStats summarizes a review pass.
type ReviewStats struct {
	Reviewed int
	Trashed  int
	Moved    int
	Aborted  bool
}

// ReviewImages walks every folder under root that holds images directly and
// asks the decision source about each one. Junk goes to the trash, memes to
// the meme bucket, and a skip answer jumps to the next folder.
func (s *Service) ReviewImages(root string) (*ReviewStats, error) {
	if !s.fsm.IsDir(root) {
		return nil, fmt.Errorf("image review: not a directory: %s", root)
	}
	root = filepath.Clean(root)
	stats := &ReviewStats{}
	sortStats := &SortStats{}

	for _, dir := range s.foldersWithImages(root) {
		entries, err := s.fsm.ListDir(dir)
		if err != nil {
			s.logger.Warn("cannot list folder", "dir", dir, "error", err)
			continue
		}
	folder:
		for _, e := range entries {
			if e.IsDir || !s.types.IsImage(e.Name) {
				continue
			}
			path := filepath.Join(dir, e.Name)
			stats.Reviewed++
			switch s.decider.DecideImage(path) {
			case ImageKeep:
			case ImageJunk:
				if err := s.trash.Put(path); err != nil {
					s.logger.Warn("cannot trash image", "path", path, "error", err)
					continue
				}
				stats.Trashed++
				s.pruneEmpty(dir, root)
			case ImageMeme:
				s.placeFile(path, filepath.Join(root, s.buckets.Memes), root, sortStats)
				stats.Moved++
			case ImageSkipFolder:
				break folder
			default:
				stats.Aborted = true
				s.logger.Info("image review aborted by user", "root", root)
				return stats, nil
			}
		}
	}
	return stats, nil
}

// foldersWithImages returns every directory under root, root included, that
// contains at least one image as a direct child, sorted by path.
func (s *Service) foldersWithImages(root string) []string {
	var found []string
	stack := []string{root}
	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		entries, err := s.fsm.ListDir(dir)
		if err != nil {
			continue
		}
		has := false
		for _, e := range entries {
			if e.IsDir {
				stack = append(stack, filepath.Join(dir, e.Name))
			} else if s.types.IsImage(e.Name) {
				has = true
			}
		}
		if has {
			found = append(found, dir)
		}
	}
	sort.Strings(found)
	return found
}

// ReviewLive finds every Live Photo companion video under root and asks
// whether to keep it. The companion carries the photo's motion clip and is
// often unwanted once the still exists.
func (s *Service) ReviewLive(root string) (*ReviewStats, error) {
	if !s.fsm.IsDir(root) {
		return nil, fmt.Errorf("live review: not a directory: %s", root)
	}
	root = filepath.Clean(root)
	stats := &ReviewStats{}

	var clips []string
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
			path := filepath.Join(dir, e.Name)
			if e.IsDir {
				stack = append(stack, path)
				continue
			}
			if isLiveCompanion(e.Name) {
				clips = append(clips, path)
			}
		}
	}
	sort.Strings(clips)

	for _, path := range clips {
		stats.Reviewed++
		switch s.decider.DecideLive(path) {
		case LiveKeep:
		case LiveTrash:
			if err := s.trash.Put(path); err != nil {
				s.logger.Warn("cannot trash live clip", "path", path, "error", err)
				continue
			}
			stats.Trashed++
			s.pruneEmpty(filepath.Dir(path), root)
		default:
			stats.Aborted = true
			s.logger.Info("live review aborted by user", "root", root)
			return stats, nil
		}
	}
	return stats, nil
}

func isLiveCompanion(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), "-live.mov")
}

// Report is the result of inspecting a single file.
type Report struct {
	Path        string
	Kind        media.Kind
	Timestamp   string
	Destination string
}

// Inspect explains what the engine would do with one file: how it
// classifies, the timestamp it resolved, and where a sort run would put it.
func (s *Service) Inspect(root, path string) Report {
	ts := s.fsm.EarliestTimestamp(path)
	return Report{
		Path:        path,
		Kind:        s.cls.Kind(path),
		Timestamp:   ts.Format("2006-01-02 15:04:05"),
		Destination: s.destinationFor(path, filepath.Clean(root)),
	}
}
