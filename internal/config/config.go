package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for mediasort.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Extensions ExtensionsConfig `toml:"extensions"`
	Buckets    BucketsConfig    `toml:"buckets"`
	Trash      TrashConfig      `toml:"trash"`
	Database   DatabaseConfig   `toml:"database"`
	Hashing    HashingConfig    `toml:"hashing"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// ExtensionsConfig lists the file extensions and names the engine treats as
// media and as disposable sidecars.
type ExtensionsConfig struct {
	Images       []string `toml:"images"`
	Videos       []string `toml:"videos"`
	Sidecars     []string `toml:"sidecars"`
	SidecarNames []string `toml:"sidecar_names"`
}

// BucketsConfig names the special destination folders created at the root of
// a sorted tree.
type BucketsConfig struct {
	Screenshots string `toml:"screenshots"`
	Recordings  string `toml:"recordings"`
	Memes       string `toml:"memes"`
}

// TrashConfig locates the trash directory that holds reversibly removed files.
type TrashConfig struct {
	Dir string `toml:"dir"`
}

// DatabaseConfig represents configuration for the trash manifest database.
// This uses a tagged union pattern - the Type field determines which other
// fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// HashingConfig controls the duplicate scan.
type HashingConfig struct {
	Workers int `toml:"workers"` // 0 means one worker per CPU
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a Config with the provided base directory and the
// default recognition sets.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Extensions: ExtensionsConfig{
			Images:       []string{"jpg", "jpeg", "png", "gif", "heic", "heif", "tiff", "bmp", "webp", "dng"},
			Videos:       []string{"mp4", "mov", "avi", "mkv", "m4v", "3gp", "webm", "wmv", "lrv", "m2ts", "mts"},
			Sidecars:     []string{"aae", "modd", "moff", "thm"},
			SidecarNames: []string{"Thumbs.db", ".DS_Store", "desktop.ini"},
		},
		Buckets: BucketsConfig{
			Screenshots: "Screenshots",
			Recordings:  "ScreenRecordings",
			Memes:       "Memes",
		},
		Trash: TrashConfig{
			Dir: filepath.Join(baseDir, "trash"),
		},
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "trash.db"),
		},
	}
}

// GeneratedNames returns every bucket name, the set of folders the engine
// itself creates and never prompts about.
func (c *Config) GeneratedNames() []string {
	return []string{c.Buckets.Screenshots, c.Buckets.Recordings, c.Buckets.Memes}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided
// Config. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
