package testutil

import (
	"sync"

	"mediasort/internal/sorter"
)

// ScriptedDecider answers decision prompts from pre-seeded maps. Missing
// entries fall back to the zero choice (keep). It records what it was asked
// so tests can assert prompt order and count.
type ScriptedDecider struct {
	mu sync.Mutex

	Folders     map[string]sorter.FolderChoice
	Relocations map[string]string
	Dups        map[string]sorter.DupDecision // keyed by the group's first file
	Images      map[string]sorter.ImageChoice
	Lives       map[string]sorter.LiveChoice

	AskedFolders []string
	AskedDups    []string
	AskedImages  []string
	AskedLives   []string

	// Canonicals records the suggested keeper per group, keyed like Dups.
	Canonicals map[string]int
}

func NewScriptedDecider() *ScriptedDecider {
	return &ScriptedDecider{
		Folders:     map[string]sorter.FolderChoice{},
		Relocations: map[string]string{},
		Dups:        map[string]sorter.DupDecision{},
		Images:      map[string]sorter.ImageChoice{},
		Lives:       map[string]sorter.LiveChoice{},
		Canonicals:  map[string]int{},
	}
}

func (d *ScriptedDecider) DecideFolder(path string) sorter.FolderChoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.AskedFolders = append(d.AskedFolders, path)
	return d.Folders[path]
}

func (d *ScriptedDecider) PickRelocationTarget(path string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	target, ok := d.Relocations[path]
	return target, ok
}

func (d *ScriptedDecider) DecideDuplicate(group sorter.DuplicateGroup, canonical int) sorter.DupDecision {
	d.mu.Lock()
	defer d.mu.Unlock()
	key := group.Files[0]
	d.AskedDups = append(d.AskedDups, key)
	d.Canonicals[key] = canonical
	if dec, ok := d.Dups[key]; ok {
		return dec
	}
	return sorter.DupDecision{Action: sorter.DupKeepAll}
}

func (d *ScriptedDecider) DecideImage(path string) sorter.ImageChoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.AskedImages = append(d.AskedImages, path)
	return d.Images[path]
}

func (d *ScriptedDecider) DecideLive(path string) sorter.LiveChoice {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.AskedLives = append(d.AskedLives, path)
	return d.Lives[path]
}

// Compile-time check
var _ sorter.DecisionSource = (*ScriptedDecider)(nil)
