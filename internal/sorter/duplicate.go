package sorter

import (
	"fmt"
	"io"
	"math"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash"

	"mediasort/internal/media"
)

// ContentKey identifies a file's content: two files are duplicates exactly
// when their keys are equal.
type ContentKey struct {
	Size int64
	Sum  uint64
}

// DuplicateGroup is a set of files with identical content. Files is sorted
// lexicographically, which makes group presentation and every tie-break
// deterministic.
type DuplicateGroup struct {
	Key   ContentKey
	Files []string
}

// DupStats summarizes a Dedup run.
type DupStats struct {
	Scanned int
	Hashed  int
	Groups  int
	Trashed int
	Aborted bool
}

// Dedup finds groups of identical media files under root and resolves each
// group through the decision source, suggesting a canonical keeper per
// group. Trashed files leave through the reversible trash.
func (s *Service) Dedup(root string) (*DupStats, error) {
	root = filepath.Clean(root)
	stats := &DupStats{}
	groups, err := s.FindDuplicates(root, stats)
	if err != nil {
		return nil, err
	}
	stats.Groups = len(groups)
	s.logger.Info("duplicate scan finished",
		"scanned", stats.Scanned, "hashed", stats.Hashed, "groups", stats.Groups)

	sortStats := &SortStats{}
	for _, g := range groups {
		canonical := s.chooseCanonical(root, g)
		dec := s.decider.DecideDuplicate(g, canonical)
		switch dec.Action {
		case DupConfirm:
			s.trashGroup(root, g, canonical, stats, sortStats)
		case DupKeepOne:
			keep := dec.Index
			if keep < 0 || keep >= len(g.Files) {
				keep = canonical
			}
			s.trashGroup(root, g, keep, stats, sortStats)
		case DupTrashAll:
			s.trashGroup(root, g, -1, stats, sortStats)
		case DupKeepAll:
		default:
			stats.Aborted = true
			s.logger.Info("dedup aborted by user", "root", root)
			return stats, nil
		}
	}
	return stats, nil
}

// trashGroup trashes every file in the group except the one at keep.
// Pass keep = -1 to trash them all.
func (s *Service) trashGroup(root string, g DuplicateGroup, keep int, stats *DupStats, sortStats *SortStats) {
	for i, path := range g.Files {
		if i == keep {
			continue
		}
		if err := s.trash.Put(path); err != nil {
			s.logger.Warn("cannot trash duplicate", "path", path, "error", err)
			continue
		}
		s.logger.Debug("trashed duplicate", "path", path)
		stats.Trashed++
		s.pruneEmpty(filepath.Dir(path), root)
	}
}

// FindDuplicates returns every group of two or more media files under root
// with identical content. Candidates are bucketed by size first; only files
// sharing a size with another file get hashed, in parallel. The groups and
// the files inside each group come back in a deterministic order.
func (s *Service) FindDuplicates(root string, stats *DupStats) ([]DuplicateGroup, error) {
	if !s.fsm.IsDir(root) {
		return nil, fmt.Errorf("duplicate scan: not a directory: %s", root)
	}
	bySize := map[int64][]string{}
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
			if strings.HasPrefix(e.Name, "._") || !s.types.IsMedia(e.Name) {
				continue
			}
			stats.Scanned++
			bySize[e.Size] = append(bySize[e.Size], path)
		}
	}

	var candidates []string
	sizes := map[string]int64{}
	for size, paths := range bySize {
		if len(paths) < 2 {
			continue
		}
		for _, p := range paths {
			candidates = append(candidates, p)
			sizes[p] = size
		}
	}
	stats.Hashed = len(candidates)

	byKey := map[ContentKey][]string{}
	for path, sum := range s.hashAll(candidates) {
		key := ContentKey{Size: sizes[path], Sum: sum}
		byKey[key] = append(byKey[key], path)
	}

	var groups []DuplicateGroup
	for key, files := range byKey {
		if len(files) < 2 {
			continue
		}
		sort.Strings(files)
		groups = append(groups, DuplicateGroup{Key: key, Files: files})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Files[0] < groups[j].Files[0]
	})
	return groups, nil
}

// hashAll computes content hashes for all paths using a bounded worker pool.
// This is the only concurrent part of the engine; results merge back into a
// single map before any decision is made. Unreadable files are logged and
// left out, which can only shrink a group.
func (s *Service) hashAll(paths []string) map[string]uint64 {
	workers := s.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type result struct {
		path string
		sum  uint64
		err  error
	}
	jobs := make(chan string)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				sum, err := s.hashFile(path)
				results <- result{path: path, sum: sum, err: err}
			}
		}()
	}
	go func() {
		for _, p := range paths {
			jobs <- p
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	sums := make(map[string]uint64, len(paths))
	for r := range results {
		if r.err != nil {
			s.logger.Warn("cannot hash file, excluding from scan", "path", r.path, "error", r.err)
			continue
		}
		sums[r.path] = r.sum
	}
	return sums
}

func (s *Service) hashFile(path string) (uint64, error) {
	f, err := s.fsm.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

var (
	parenCopyPattern = regexp.MustCompile(`\(\d+\)$`)
	spaceCopyPattern = regexp.MustCompile(`\s+\d+$`)
	trailingNumber   = regexp.MustCompile(`(\d+)$`)
)

// folderRank orders the kinds of folder a duplicate can live in, best first.
const (
	rankDateFolder = iota
	rankGenerated
	rankOther
	rankBackup
)

type dupCandidate struct {
	idx  int
	aux  bool
	num  int64
	ts   time.Time
	rank int
}

// chooseCanonical picks the file to keep from a duplicate group. The cascade
// narrows the group step by step and the survivor of the last applicable
// step wins:
//
//  1. drop auxiliary-named copies ("(2)", trailing " 2", "-live") if any
//     original name remains
//  2. keep only the files with the smallest trailing number in the stem
//  3. a file inside a dated year/month chain beats everything; earliest
//     timestamp breaks ties
//  4. otherwise a file inside a generated bucket, earliest timestamp first
//  5. otherwise the unique earliest timestamp
//  6. otherwise the best folder rank; remaining ties fall to the first file
//     in lexicographic order
func (s *Service) chooseCanonical(root string, g DuplicateGroup) int {
	cands := make([]dupCandidate, len(g.Files))
	for i, path := range g.Files {
		stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		c := dupCandidate{
			idx:  i,
			aux:  isAuxiliaryName(stem),
			num:  int64(math.MaxInt64),
			ts:   s.fsm.EarliestTimestamp(path),
			rank: s.folderRankOf(root, path),
		}
		if m := trailingNumber.FindStringSubmatch(stem); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				c.num = n
			}
		}
		cands[i] = c
	}

	if kept := filterCandidates(cands, func(c dupCandidate) bool { return !c.aux }); len(kept) > 0 {
		cands = kept
	}

	minNum := cands[0].num
	for _, c := range cands[1:] {
		if c.num < minNum {
			minNum = c.num
		}
	}
	cands = filterCandidates(cands, func(c dupCandidate) bool { return c.num == minNum })

	if dated := filterCandidates(cands, func(c dupCandidate) bool { return c.rank == rankDateFolder }); len(dated) > 0 {
		return earliestOf(dated).idx
	}
	if gen := filterCandidates(cands, func(c dupCandidate) bool { return c.rank == rankGenerated }); len(gen) > 0 {
		return earliestOf(gen).idx
	}

	earliest := earliestOf(cands)
	unique := true
	for _, c := range cands {
		if c.idx != earliest.idx && c.ts.Equal(earliest.ts) {
			unique = false
			break
		}
	}
	if unique {
		return earliest.idx
	}

	cands = filterCandidates(cands, func(c dupCandidate) bool { return c.ts.Equal(earliest.ts) })
	best := cands[0]
	for _, c := range cands[1:] {
		if c.rank < best.rank {
			best = c
		}
	}
	return best.idx
}

func isAuxiliaryName(stem string) bool {
	return parenCopyPattern.MatchString(stem) ||
		spaceCopyPattern.MatchString(stem) ||
		strings.HasSuffix(strings.ToLower(stem), "-live")
}

func filterCandidates(cands []dupCandidate, keep func(dupCandidate) bool) []dupCandidate {
	var out []dupCandidate
	for _, c := range cands {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func earliestOf(cands []dupCandidate) dupCandidate {
	best := cands[0]
	for _, c := range cands[1:] {
		if c.ts.Before(best.ts) {
			best = c
		}
	}
	return best
}

// folderRankOf classifies where a file lives relative to root. A file under
// a backup folder ranks worst; inside a year/month chain best. A bare year
// or month component on its own is not a dated chain.
func (s *Service) folderRankOf(root, path string) int {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return rankOther
	}
	parts := strings.Split(rel, string(filepath.Separator))
	rank := rankOther
	for i, part := range parts {
		switch s.types.ClassifyFolderName(part) {
		case media.FolderBackup:
			return rankBackup
		case media.FolderYear:
			if i+1 < len(parts) && s.types.ClassifyFolderName(parts[i+1]) == media.FolderMonth {
				rank = rankDateFolder
			}
		case media.FolderGenerated:
			if rank != rankDateFolder {
				rank = rankGenerated
			}
		}
	}
	return rank
}
