package database

import (
	"fmt"
	"os"
	"path/filepath"

	"mediasort/internal/config"
)

// NewManifestFromConfig creates a trash manifest based on the database
// config type.
func NewManifestFromConfig(cfg config.DatabaseConfig) (*SQLiteManifest, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for sqlite database")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		return NewSQLiteManifest(cfg.Path)
	case "memory":
		return NewSQLiteManifest(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
