package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mediasort/internal/database/migrations"
	"mediasort/internal/model"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteManifest records trash runs and entries in a SQLite database.
// The media tree itself stays index-free; the manifest describes only
// removals, so losing it never loses a photo.
type SQLiteManifest struct {
	db   *sql.DB
	path string
}

// NewSQLiteManifest opens (or creates) the manifest at path and brings its
// schema up to date. path can be ":memory:" for tests.
func NewSQLiteManifest(path string) (*SQLiteManifest, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating manifest: %w", err)
	}
	return &SQLiteManifest{db: db, path: path}, nil
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs
// the manifest relies on. Exported for tools and tests.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite defaults foreign keys to OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return db, nil
}

// Run operations

func (m *SQLiteManifest) CreateRun(id, operation string, startedAt time.Time) error {
	_, err := m.db.Exec(
		"INSERT INTO trash_runs (id, operation, started_at) VALUES (?, ?, ?)",
		id, operation, startedAt,
	)
	if err != nil {
		return fmt.Errorf("creating trash run: %w", err)
	}
	return nil
}

func (m *SQLiteManifest) FinishRun(id string, finishedAt time.Time) error {
	_, err := m.db.Exec(
		"UPDATE trash_runs SET finished_at = ? WHERE id = ?",
		finishedAt, id,
	)
	if err != nil {
		return fmt.Errorf("finishing trash run: %w", err)
	}
	return nil
}

func (m *SQLiteManifest) ListRuns(limit int) ([]*model.TrashRun, error) {
	rows, err := m.db.Query(
		"SELECT id, operation, started_at, finished_at FROM trash_runs ORDER BY started_at DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing trash runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.TrashRun
	for rows.Next() {
		run := &model.TrashRun{}
		var finished sql.NullTime
		if err := rows.Scan(&run.ID, &run.Operation, &run.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scanning trash run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trash runs: %w", err)
	}
	return runs, nil
}

// Entry operations

func (m *SQLiteManifest) AddEntry(e *model.TrashEntry) error {
	_, err := m.db.Exec(
		`INSERT INTO trash_entries (id, run_id, original_path, trashed_path, size, trashed_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.RunID, e.OriginalPath, e.TrashedPath, e.Size, e.TrashedAt,
	)
	if err != nil {
		return fmt.Errorf("adding trash entry: %w", err)
	}
	return nil
}

func (m *SQLiteManifest) ListEntries(runID string) ([]*model.TrashEntry, error) {
	rows, err := m.db.Query(
		`SELECT id, run_id, original_path, trashed_path, size, trashed_at, restored_at
		 FROM trash_entries WHERE run_id = ? ORDER BY trashed_at, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing trash entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (m *SQLiteManifest) GetEntry(id string) (*model.TrashEntry, error) {
	row := m.db.QueryRow(
		`SELECT id, run_id, original_path, trashed_path, size, trashed_at, restored_at
		 FROM trash_entries WHERE id = ?`,
		id,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("finding trash entry: %w", err)
	}
	return e, nil
}

func (m *SQLiteManifest) MarkRestored(id string, at time.Time) error {
	_, err := m.db.Exec(
		"UPDATE trash_entries SET restored_at = ? WHERE id = ?",
		at, id,
	)
	if err != nil {
		return fmt.Errorf("marking trash entry restored: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*model.TrashEntry, error) {
	e := &model.TrashEntry{}
	var restored sql.NullTime
	if err := s.Scan(&e.ID, &e.RunID, &e.OriginalPath, &e.TrashedPath, &e.Size, &e.TrashedAt, &restored); err != nil {
		return nil, err
	}
	if restored.Valid {
		t := restored.Time
		e.RestoredAt = &t
	}
	return e, nil
}

func scanEntries(rows *sql.Rows) ([]*model.TrashEntry, error) {
	var entries []*model.TrashEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning trash entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trash entries: %w", err)
	}
	return entries, nil
}

// Path returns the database file path (or ":memory:").
func (m *SQLiteManifest) Path() string {
	return m.path
}

// CheckMigrations verifies the manifest schema is up-to-date.
func (m *SQLiteManifest) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(m.db)
}

// Close closes the database connection.
func (m *SQLiteManifest) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
