package trash

import (
	"fmt"

	"mediasort/internal/config"
	"mediasort/internal/database"
	"mediasort/internal/sorter"
)

// NewTrashFromConfig builds the filesystem trash with its manifest.
func NewTrashFromConfig(cfg config.TrashConfig, manifest Manifest, fsm sorter.FilesystemManager, clock sorter.Clock, ids sorter.IDGenerator) (*FilesystemTrash, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("trash dir not configured")
	}
	return NewFilesystemTrash(cfg.Dir, manifest, fsm, clock, ids)
}

// Compile-time check that the SQLite manifest satisfies the interface.
var _ Manifest = (*database.SQLiteManifest)(nil)
