package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/mediasort",
		LogDir:  "/home/user/.local/share/mediasort/log",
		Extensions: ExtensionsConfig{
			Images:       []string{"jpg", "png"},
			Videos:       []string{"mp4", "mov"},
			Sidecars:     []string{"aae"},
			SidecarNames: []string{"Thumbs.db"},
		},
		Buckets: BucketsConfig{
			Screenshots: "Screenshots",
			Recordings:  "ScreenRecordings",
			Memes:       "Memes",
		},
		Trash:    TrashConfig{Dir: "/home/user/.local/share/mediasort/trash"},
		Database: DatabaseConfig{Type: "sqlite", Path: "/home/user/.local/share/mediasort/trash.db"},
		Hashing:  HashingConfig{Workers: 4},
		Filesystem: FilesystemConfig{
			Ignore: []string{"*.tmp", ".git"},
		},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if len(got.Extensions.Images) != 2 {
		t.Fatalf("len(Extensions.Images) = %d, want 2", len(got.Extensions.Images))
	}
	if got.Buckets.Recordings != "ScreenRecordings" {
		t.Errorf("Buckets.Recordings = %q, want %q", got.Buckets.Recordings, "ScreenRecordings")
	}
	if got.Trash.Dir != original.Trash.Dir {
		t.Errorf("Trash.Dir = %q, want %q", got.Trash.Dir, original.Trash.Dir)
	}
	if got.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", got.Database.Type, "sqlite")
	}
	if got.Hashing.Workers != 4 {
		t.Errorf("Hashing.Workers = %d, want 4", got.Hashing.Workers)
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Fatalf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/mediasort")

	if cfg.BaseDir != "/data/mediasort" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/mediasort")
	}
	if cfg.LogDir != "/data/mediasort/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/mediasort/log")
	}
	if cfg.Trash.Dir != "/data/mediasort/trash" {
		t.Errorf("Trash.Dir = %q, want %q", cfg.Trash.Dir, "/data/mediasort/trash")
	}
	if cfg.Database.Type != "sqlite" {
		t.Errorf("Database.Type = %q, want %q", cfg.Database.Type, "sqlite")
	}
	if len(cfg.Extensions.Images) == 0 || len(cfg.Extensions.Videos) == 0 {
		t.Error("default extension sets must not be empty")
	}
	names := cfg.GeneratedNames()
	if len(names) != 3 {
		t.Fatalf("len(GeneratedNames()) = %d, want 3", len(names))
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mediasort.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mediasort.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "mediasort.toml")
		cfg := NewConfig(dir)
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Database.Type != "memory" {
			t.Errorf("Database.Type = %q, want %q", got.Database.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/mediasort.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
