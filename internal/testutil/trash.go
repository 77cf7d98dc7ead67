package testutil

import (
	"sync"

	"mediasort/internal/sorter"
)

// MockTrash removes files from a MockFilesystemManager and records them.
type MockTrash struct {
	mu      sync.Mutex
	FS      *MockFilesystemManager
	Trashed []string
}

func NewMockTrash(fs *MockFilesystemManager) *MockTrash {
	return &MockTrash{FS: fs}
}

func (t *MockTrash) Put(path string) error {
	if err := t.FS.RemoveFile(path); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Trashed = append(t.Trashed, path)
	return nil
}

// Compile-time check
var _ sorter.Trash = (*MockTrash)(nil)
