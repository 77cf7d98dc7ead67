package testutil

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"mediasort/internal/sorter"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content []byte
	ModTime time.Time
}

// MockFilesystemManager is an in-memory filesystem for testing. Paths are
// plain slash-separated absolute paths; parents are registered implicitly
// when files are added.
type MockFilesystemManager struct {
	mu    sync.Mutex
	dirs  map[string]bool
	files map[string]*MockFile

	// ReadOnly marks directories whose subtree rejects MkdirAll and Move,
	// simulating a read-only mount.
	ReadOnly map[string]bool

	// Fallback is what EarliestTimestamp returns for unknown paths.
	Fallback time.Time
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		dirs:     map[string]bool{"/": true},
		files:    map[string]*MockFile{},
		ReadOnly: map[string]bool{},
		Fallback: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

// AddFile adds a file with the given modification time, creating parents.
func (m *MockFilesystemManager) AddFile(path string, content []byte, modTime time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureDirs(filepath.Dir(path))
	m.files[path] = &MockFile{Content: content, ModTime: modTime}
}

// AddDirectory adds a directory, creating parents.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureDirs(path)
}

func (m *MockFilesystemManager) ensureDirs(dir string) {
	for dir != "/" && dir != "." && !m.dirs[dir] {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

// FilePaths returns every file path, sorted. Handy for final-state asserts.
func (m *MockFilesystemManager) FilePaths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// HasFile reports whether a file exists at path.
func (m *MockFilesystemManager) HasFile(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[path] != nil
}

// HasDir reports whether a directory exists at path.
func (m *MockFilesystemManager) HasDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path]
}

// RemoveFile deletes a file outright. Used by MockTrash.
func (m *MockFilesystemManager) RemoveFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[path] == nil {
		return fmt.Errorf("file not found: %s", path)
	}
	delete(m.files, path)
	return nil
}

func (m *MockFilesystemManager) ListDir(path string) ([]sorter.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[path] {
		return nil, fmt.Errorf("not a directory: %s", path)
	}
	var entries []sorter.Entry
	for d := range m.dirs {
		if filepath.Dir(d) == path && d != path {
			entries = append(entries, sorter.Entry{Name: filepath.Base(d), IsDir: true})
		}
	}
	for f, file := range m.files {
		if filepath.Dir(f) == path {
			entries = append(entries, sorter.Entry{Name: filepath.Base(f), Size: int64(len(file.Content))})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (m *MockFilesystemManager) Exists(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path] || m.files[path] != nil
}

func (m *MockFilesystemManager) IsDir(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirs[path]
}

func (m *MockFilesystemManager) Move(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly(src) || m.readOnly(dst) {
		return fmt.Errorf("read-only file system: %s", dst)
	}
	if m.dirs[dst] || m.files[dst] != nil {
		return fmt.Errorf("destination exists: %s", dst)
	}
	if !m.dirs[filepath.Dir(dst)] {
		return fmt.Errorf("no such directory: %s", filepath.Dir(dst))
	}
	if f := m.files[src]; f != nil {
		m.files[dst] = f
		delete(m.files, src)
		return nil
	}
	if m.dirs[src] {
		prefix := src + "/"
		for d := range m.dirs {
			if strings.HasPrefix(d, prefix) {
				m.dirs[dst+"/"+strings.TrimPrefix(d, prefix)] = true
				delete(m.dirs, d)
			}
		}
		for f, file := range m.files {
			if strings.HasPrefix(f, prefix) {
				m.files[dst+"/"+strings.TrimPrefix(f, prefix)] = file
				delete(m.files, f)
			}
		}
		m.dirs[dst] = true
		delete(m.dirs, src)
		return nil
	}
	return fmt.Errorf("file not found: %s", src)
}

func (m *MockFilesystemManager) MkdirAll(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly(path) {
		return fmt.Errorf("read-only file system: %s", path)
	}
	m.ensureDirs(path)
	return nil
}

func (m *MockFilesystemManager) RemoveDir(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirs[path] {
		return fmt.Errorf("not a directory: %s", path)
	}
	for d := range m.dirs {
		if filepath.Dir(d) == path {
			return fmt.Errorf("directory not empty: %s", path)
		}
	}
	for f := range m.files {
		if filepath.Dir(f) == path {
			return fmt.Errorf("directory not empty: %s", path)
		}
	}
	delete(m.dirs, path)
	return nil
}

func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.files[path]
	if f == nil {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	return io.NopCloser(bytes.NewReader(f.Content)), nil
}

func (m *MockFilesystemManager) Size(path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.files[path]
	if f == nil {
		return 0, fmt.Errorf("file not found: %s", path)
	}
	return int64(len(f.Content)), nil
}

func (m *MockFilesystemManager) EarliestTimestamp(path string) time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f := m.files[path]; f != nil {
		return f.ModTime
	}
	return m.Fallback
}

func (m *MockFilesystemManager) readOnly(path string) bool {
	for p := path; ; p = filepath.Dir(p) {
		if m.ReadOnly[p] {
			return true
		}
		if p == "/" || p == "." {
			return false
		}
	}
}

// Compile-time check
var _ sorter.FilesystemManager = (*MockFilesystemManager)(nil)
