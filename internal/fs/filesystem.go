package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"mediasort/internal/media"
	"mediasort/internal/sorter"
)

// OSFilesystemManager is the real filesystem implementation of
// sorter.FilesystemManager. Entries matching the ignore patterns are
// invisible to the engine.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that operates on the
// real filesystem, hiding entries that match the given ignore patterns on
// top of the defaults.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	patterns := make([]string, 0, len(DefaultIgnorePatterns)+len(ignorePatterns))
	patterns = append(patterns, DefaultIgnorePatterns...)
	patterns = append(patterns, ignorePatterns...)
	return &OSFilesystemManager{ignore: NewIgnoreMatcher(patterns)}
}

// LoadIgnoreFile merges the patterns of root's ignore file into the matcher.
// A missing file is fine; configured patterns always stay in effect.
func (m *OSFilesystemManager) LoadIgnoreFile(root string) error {
	patterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return err
	}
	if len(patterns) > 0 {
		m.ignore = m.ignore.Extend(patterns)
	}
	return nil
}

// ListDir returns the directory's entries sorted by name. Symlinks, devices
// and other irregular files are skipped; the engine only ever deals with
// regular files and directories.
func (m *OSFilesystemManager) ListDir(path string) ([]sorter.Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}
	entries := make([]sorter.Entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		if m.ignore.Match(e.Name()) {
			continue
		}
		if e.IsDir() {
			entries = append(entries, sorter.Entry{Name: e.Name(), IsDir: true})
			continue
		}
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Raced with a concurrent removal; treat as gone.
			continue
		}
		entries = append(entries, sorter.Entry{Name: e.Name(), Size: info.Size()})
	}
	return entries, nil
}

func (m *OSFilesystemManager) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (m *OSFilesystemManager) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Move renames src to dst. A cross-device rename of a regular file falls
// back to copy and delete. It refuses to overwrite.
func (m *OSFilesystemManager) Move(src, dst string) error {
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("destination exists: %s", dst)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return m.moveDirAcrossDevices(src, dst)
	}
	return m.copyAndDelete(src, dst)
}

func (m *OSFilesystemManager) copyAndDelete(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copying: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("closing destination: %w", err)
	}
	return os.Remove(src)
}

func (m *OSFilesystemManager) moveDirAcrossDevices(src, dst string) error {
	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("reading source directory: %w", err)
	}
	for _, e := range entries {
		if err := m.Move(filepath.Join(src, e.Name()), filepath.Join(dst, e.Name())); err != nil {
			return err
		}
	}
	return os.Remove(src)
}

func (m *OSFilesystemManager) MkdirAll(path string) error {
	return os.MkdirAll(path, 0755)
}

func (m *OSFilesystemManager) RemoveDir(path string) error {
	return os.Remove(path)
}

func (m *OSFilesystemManager) Open(path string) (io.ReadCloser, error) {
	return os.Open(path)
}

func (m *OSFilesystemManager) Size(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	return info.Size(), nil
}

func (m *OSFilesystemManager) EarliestTimestamp(path string) time.Time {
	return media.EarliestTimestamp(path)
}

// Compile-time check
var _ sorter.FilesystemManager = (*OSFilesystemManager)(nil)
