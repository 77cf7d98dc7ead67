package database

import (
	"testing"
	"time"

	"mediasort/internal/model"
)

func newTestManifest(t *testing.T) *SQLiteManifest {
	t.Helper()
	m, err := NewSQLiteManifest(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteManifest() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSQLiteManifest_Runs(t *testing.T) {
	m := newTestManifest(t)
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	if err := m.CreateRun("run-1", "sort", start); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := m.CreateRun("run-2", "dedup", start.Add(time.Hour)); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	runs, err := m.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len(runs) = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].ID != "run-2" || runs[1].ID != "run-1" {
		t.Errorf("run order = [%s %s], want [run-2 run-1]", runs[0].ID, runs[1].ID)
	}
	if runs[0].FinishedAt != nil {
		t.Error("unfinished run must have nil FinishedAt")
	}

	if err := m.FinishRun("run-1", start.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}
	runs, err = m.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if runs[1].FinishedAt == nil {
		t.Error("finished run must have FinishedAt set")
	}
}

func TestSQLiteManifest_Entries(t *testing.T) {
	m := newTestManifest(t)
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if err := m.CreateRun("run-1", "sort", now); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	e := &model.TrashEntry{
		ID:           "entry-1",
		RunID:        "run-1",
		OriginalPath: "/photos/IMG_001.AAE",
		TrashedPath:  "/data/trash/entry-1-IMG_001.AAE",
		Size:         1234,
		TrashedAt:    now,
	}
	if err := m.AddEntry(e); err != nil {
		t.Fatalf("AddEntry() error = %v", err)
	}

	t.Run("lists entries for a run", func(t *testing.T) {
		entries, err := m.ListEntries("run-1")
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d, want 1", len(entries))
		}
		got := entries[0]
		if got.OriginalPath != e.OriginalPath || got.TrashedPath != e.TrashedPath || got.Size != e.Size {
			t.Errorf("entry = %+v, want %+v", got, e)
		}
		if got.Restored() {
			t.Error("fresh entry must not be restored")
		}
	})

	t.Run("get by id", func(t *testing.T) {
		got, err := m.GetEntry("entry-1")
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got == nil || got.ID != "entry-1" {
			t.Fatalf("GetEntry() = %+v, want entry-1", got)
		}
	})

	t.Run("get missing id returns nil", func(t *testing.T) {
		got, err := m.GetEntry("nope")
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if got != nil {
			t.Errorf("GetEntry(missing) = %+v, want nil", got)
		}
	})

	t.Run("mark restored", func(t *testing.T) {
		if err := m.MarkRestored("entry-1", now.Add(time.Hour)); err != nil {
			t.Fatalf("MarkRestored() error = %v", err)
		}
		got, err := m.GetEntry("entry-1")
		if err != nil {
			t.Fatalf("GetEntry() error = %v", err)
		}
		if !got.Restored() {
			t.Error("entry should be restored")
		}
	})

	t.Run("entry requires an existing run", func(t *testing.T) {
		bad := &model.TrashEntry{
			ID:           "entry-2",
			RunID:        "no-such-run",
			OriginalPath: "/x",
			TrashedPath:  "/y",
			TrashedAt:    now,
		}
		if err := m.AddEntry(bad); err == nil {
			t.Error("AddEntry() with unknown run should fail the foreign key")
		}
	})
}

func TestSQLiteManifest_CheckMigrations(t *testing.T) {
	m := newTestManifest(t)
	if err := m.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v, want nil after open", err)
	}
}
