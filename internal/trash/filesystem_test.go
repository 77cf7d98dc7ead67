package trash_test

import (
	"testing"
	"time"

	"mediasort/internal/testutil"
	"mediasort/internal/trash"
)

func newTestTrash(t *testing.T) (*trash.FilesystemTrash, *testutil.MockFilesystemManager) {
	t.Helper()
	fs := testutil.NewMockFilesystemManager()
	fs.AddDirectory("/photos")
	tr, err := trash.NewFilesystemTrash("/data/trash", testutil.NewTestManifest(t), fs, testutil.FixedClock(), testutil.NewStubIDGenerator())
	if err != nil {
		t.Fatalf("NewFilesystemTrash() error = %v", err)
	}
	return tr, fs
}

func TestFilesystemTrash_Put(t *testing.T) {
	t.Run("requires an open run", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/a.jpg", []byte("a"), time.Now())

		if err := tr.Put("/photos/a.jpg"); err == nil {
			t.Error("Put() without Begin() should fail")
		}
	})

	t.Run("moves the file and records an entry", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/a.jpg", []byte("abc"), time.Now())

		if err := tr.Begin("sort"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := tr.Put("/photos/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if fs.HasFile("/photos/a.jpg") {
			t.Error("original file still present")
		}
		// Begin consumed id-1; the entry is id-2.
		if !fs.HasFile("/data/trash/id-2-a.jpg") {
			t.Errorf("trashed file missing, have %v", fs.FilePaths())
		}

		runs, err := tr.ListRuns(10)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		if len(runs) != 1 || runs[0].Operation != "sort" {
			t.Fatalf("runs = %+v, want one sort run", runs)
		}
		entries, err := tr.ListEntries(runs[0].ID)
		if err != nil {
			t.Fatalf("ListEntries() error = %v", err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d, want 1", len(entries))
		}
		e := entries[0]
		if e.OriginalPath != "/photos/a.jpg" || e.TrashedPath != "/data/trash/id-2-a.jpg" || e.Size != 3 {
			t.Errorf("entry = %+v", e)
		}
	})

	t.Run("same basename never collides", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/x/a.jpg", []byte("1"), time.Now())
		fs.AddFile("/photos/y/a.jpg", []byte("2"), time.Now())

		if err := tr.Begin("dedup"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := tr.Put("/photos/x/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := tr.Put("/photos/y/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if !fs.HasFile("/data/trash/id-2-a.jpg") || !fs.HasFile("/data/trash/id-3-a.jpg") {
			t.Errorf("trash contents = %v", fs.FilePaths())
		}
	})
}

func TestFilesystemTrash_Restore(t *testing.T) {
	t.Run("puts the file back and marks the entry", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/sub/a.jpg", []byte("a"), time.Now())

		if err := tr.Begin("sort"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := tr.Put("/photos/sub/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if err := tr.Restore("id-2"); err != nil {
			t.Fatalf("Restore() error = %v", err)
		}
		if !fs.HasFile("/photos/sub/a.jpg") {
			t.Error("file not restored to its original path")
		}
		if err := tr.Restore("id-2"); err == nil {
			t.Error("second Restore() of the same entry should fail")
		}
	})

	t.Run("refuses to overwrite a new occupant", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/a.jpg", []byte("old"), time.Now())

		if err := tr.Begin("sort"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := tr.Put("/photos/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		fs.AddFile("/photos/a.jpg", []byte("new"), time.Now())

		if err := tr.Restore("id-2"); err == nil {
			t.Error("Restore() onto an occupied path should fail")
		}
	})

	t.Run("restore run restores everything unrestored", func(t *testing.T) {
		tr, fs := newTestTrash(t)
		fs.AddFile("/photos/a.jpg", []byte("a"), time.Now())
		fs.AddFile("/photos/b.jpg", []byte("b"), time.Now())

		if err := tr.Begin("review"); err != nil {
			t.Fatalf("Begin() error = %v", err)
		}
		if err := tr.Put("/photos/a.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := tr.Put("/photos/b.jpg"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := tr.Finish(); err != nil {
			t.Fatalf("Finish() error = %v", err)
		}

		runs, err := tr.ListRuns(1)
		if err != nil {
			t.Fatalf("ListRuns() error = %v", err)
		}
		restored, err := tr.RestoreRun(runs[0].ID)
		if err != nil {
			t.Fatalf("RestoreRun() error = %v", err)
		}
		if restored != 2 {
			t.Errorf("restored = %d, want 2", restored)
		}
		if !fs.HasFile("/photos/a.jpg") || !fs.HasFile("/photos/b.jpg") {
			t.Errorf("files not restored, have %v", fs.FilePaths())
		}
	})
}
