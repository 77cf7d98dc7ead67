package sorter_test

import (
	"testing"
	"time"

	"mediasort/internal/media"
	"mediasort/internal/sorter"
	"mediasort/internal/testutil"
)

func testTypes() media.Types {
	return media.NewTypes(
		[]string{"jpg", "jpeg", "png", "gif", "heic"},
		[]string{"mp4", "mov", "avi"},
		[]string{"aae", "modd"},
		[]string{"Thumbs.db", ".DS_Store"},
		[]string{"Screenshots", "ScreenRecordings", "Memes"},
	)
}

func testBuckets() sorter.Buckets {
	return sorter.Buckets{
		Screenshots: "Screenshots",
		Recordings:  "ScreenRecordings",
		Memes:       "Memes",
	}
}

// harness bundles a service with all its test doubles.
type harness struct {
	fs      *testutil.MockFilesystemManager
	trash   *testutil.MockTrash
	decider *testutil.ScriptedDecider
	cls     *testutil.StubClassifier
	svc     *sorter.Service
}

func newHarness() *harness {
	fs := testutil.NewMockFilesystemManager()
	trash := testutil.NewMockTrash(fs)
	decider := testutil.NewScriptedDecider()
	cls := testutil.NewStubClassifier()
	svc := sorter.NewService(testTypes(), cls, fs, trash, decider, sorter.NewNopLogger(), testBuckets(), 2)
	return &harness{fs: fs, trash: trash, decider: decider, cls: cls, svc: svc}
}

func ts(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestService_Sort_PlacesLooseFiles(t *testing.T) {
	h := newHarness()
	h.fs.AddDirectory("/photos")
	h.fs.AddFile("/photos/IMG_001.jpg", []byte("a"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/shot.png", []byte("b"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/rec.mov", []byte("c"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/notes.txt", []byte("d"), ts(2021, time.April, 10))
	h.cls.Kinds["/photos/shot.png"] = media.KindScreenshot
	h.cls.Kinds["/photos/rec.mov"] = media.KindScreenRecording

	stats, err := h.svc.Sort("/photos")
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if stats.Moved != 3 {
		t.Errorf("Moved = %d, want 3", stats.Moved)
	}
	if !h.fs.HasFile("/photos/2021/04-April/IMG_001.jpg") {
		t.Error("plain image not placed in year/month folder")
	}
	if !h.fs.HasFile("/photos/Screenshots/shot.png") {
		t.Error("screenshot not placed in bucket")
	}
	if !h.fs.HasFile("/photos/ScreenRecordings/rec.mov") {
		t.Error("recording not placed in bucket")
	}
	if !h.fs.HasFile("/photos/notes.txt") {
		t.Error("non-media file should stay put")
	}
}

func TestService_Sort_TrashesSidecars(t *testing.T) {
	h := newHarness()
	h.fs.AddDirectory("/photos")
	h.fs.AddFile("/photos/IMG_001.AAE", []byte("x"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/old/Thumbs.db", []byte("y"), ts(2021, time.April, 10))

	stats, err := h.svc.Sort("/photos")
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if stats.Sidecars != 2 {
		t.Errorf("Sidecars = %d, want 2", stats.Sidecars)
	}
	if len(h.trash.Trashed) != 2 {
		t.Errorf("trashed %d files, want 2", len(h.trash.Trashed))
	}
	if h.fs.HasDir("/photos/old") {
		t.Error("folder emptied by sidecar removal should be pruned")
	}
}

func TestService_Sort_Idempotent(t *testing.T) {
	h := newHarness()
	h.fs.AddDirectory("/photos")
	h.fs.AddFile("/photos/IMG_001.jpg", []byte("a"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/IMG_002.jpg", []byte("b"), ts(2020, time.December, 31))
	h.fs.AddFile("/photos/shot.png", []byte("c"), ts(2021, time.April, 10))
	h.cls.Kinds["/photos/shot.png"] = media.KindScreenshot
	h.cls.Kinds["/photos/Screenshots/shot.png"] = media.KindScreenshot

	if _, err := h.svc.Sort("/photos"); err != nil {
		t.Fatalf("first Sort() error = %v", err)
	}
	before := h.fs.FilePaths()

	stats, err := h.svc.Sort("/photos")
	if err != nil {
		t.Fatalf("second Sort() error = %v", err)
	}
	if stats.Moved != 0 {
		t.Errorf("second run Moved = %d, want 0", stats.Moved)
	}
	after := h.fs.FilePaths()
	if len(before) != len(after) {
		t.Fatalf("file count changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("file moved on second run: %s -> %s", before[i], after[i])
		}
	}
}

func TestService_Sort_FolderDecisions(t *testing.T) {
	t.Run("sort into years disperses and prunes", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/Vacation/IMG_003.jpg", []byte("a"), ts(2019, time.July, 4))
		h.decider.Folders["/photos/Vacation"] = sorter.FolderSortIntoYears

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !h.fs.HasFile("/photos/2019/07-July/IMG_003.jpg") {
			t.Error("file not dispersed into year/month")
		}
		if h.fs.HasDir("/photos/Vacation") {
			t.Error("emptied folder should be pruned")
		}
	})

	t.Run("sort inside roots the structure at the folder", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/Archive/IMG_004.jpg", []byte("a"), ts(2018, time.March, 2))
		h.decider.Folders["/photos/Archive"] = sorter.FolderSortInside

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !h.fs.HasFile("/photos/Archive/2018/03-March/IMG_004.jpg") {
			t.Error("file not sorted inside the folder")
		}
	})

	t.Run("keep leaves the folder untouched", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/Wedding/IMG_005.jpg", []byte("a"), ts(2017, time.June, 10))
		h.decider.Folders["/photos/Wedding"] = sorter.FolderKeep

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !h.fs.HasFile("/photos/Wedding/IMG_005.jpg") {
			t.Error("kept folder must not be touched")
		}
	})

	t.Run("keep with relocation moves the folder wholesale", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddDirectory("/albums")
		h.fs.AddFile("/photos/Wedding/IMG_005.jpg", []byte("a"), ts(2017, time.June, 10))
		h.decider.Folders["/photos/Wedding"] = sorter.FolderKeep
		h.decider.Relocations["/photos/Wedding"] = "/albums"

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !h.fs.HasFile("/albums/Wedding/IMG_005.jpg") {
			t.Error("folder not relocated wholesale")
		}
		if h.fs.HasDir("/photos/Wedding") {
			t.Error("relocated folder should be gone from the tree")
		}
	})

	t.Run("skip leaves the folder for this run", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/Inbox/IMG_006.jpg", []byte("a"), ts(2022, time.May, 5))
		h.decider.Folders["/photos/Inbox"] = sorter.FolderSkip

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !h.fs.HasFile("/photos/Inbox/IMG_006.jpg") {
			t.Error("skipped folder must not be touched")
		}
	})

	t.Run("quit aborts before the sweep", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/loose.jpg", []byte("a"), ts(2021, time.April, 10))
		h.fs.AddFile("/photos/Inbox/IMG_006.jpg", []byte("b"), ts(2022, time.May, 5))
		h.decider.Folders["/photos/Inbox"] = sorter.FolderQuit

		stats, err := h.svc.Sort("/photos")
		if err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if !stats.Aborted {
			t.Error("Aborted = false, want true")
		}
		if !h.fs.HasFile("/photos/loose.jpg") {
			t.Error("loose file must not move after an abort")
		}
	})

	t.Run("prompts innermost folders first", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddFile("/photos/Outer/a.jpg", []byte("a"), ts(2021, time.April, 10))
		h.fs.AddFile("/photos/Outer/Inner/b.jpg", []byte("b"), ts(2021, time.April, 10))
		h.decider.Folders["/photos/Outer"] = sorter.FolderSkip
		h.decider.Folders["/photos/Outer/Inner"] = sorter.FolderSkip

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		want := []string{"/photos/Outer/Inner", "/photos/Outer"}
		if len(h.decider.AskedFolders) != len(want) {
			t.Fatalf("asked %v, want %v", h.decider.AskedFolders, want)
		}
		for i := range want {
			if h.decider.AskedFolders[i] != want[i] {
				t.Errorf("asked[%d] = %s, want %s", i, h.decider.AskedFolders[i], want[i])
			}
		}
	})

	t.Run("folder without media is never prompted", func(t *testing.T) {
		h := newHarness()
		h.fs.AddDirectory("/photos")
		h.fs.AddDirectory("/photos/Empty")
		h.fs.AddFile("/photos/Docs/letter.txt", []byte("a"), ts(2021, time.April, 10))

		if _, err := h.svc.Sort("/photos"); err != nil {
			t.Fatalf("Sort() error = %v", err)
		}
		if len(h.decider.AskedFolders) != 0 {
			t.Errorf("asked %v, want no prompts", h.decider.AskedFolders)
		}
		if h.fs.HasDir("/photos/Empty") {
			t.Error("truly empty folder should be pruned")
		}
		if !h.fs.HasFile("/photos/Docs/letter.txt") {
			t.Error("folder holding documents must stay")
		}
	})
}

func TestService_Sort_ReadOnlyDestination(t *testing.T) {
	h := newHarness()
	h.fs.AddDirectory("/photos")
	h.fs.AddFile("/photos/IMG_001.jpg", []byte("a"), ts(2021, time.April, 10))
	h.fs.AddDirectory("/photos/2021")
	h.fs.ReadOnly["/photos/2021"] = true

	stats, err := h.svc.Sort("/photos")
	if err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if !h.fs.HasFile("/photos/IMG_001.jpg") {
		t.Error("file must stay put when its destination is read-only")
	}
}

func TestService_Sort_NameCollision(t *testing.T) {
	h := newHarness()
	h.fs.AddDirectory("/photos")
	h.fs.AddFile("/photos/x/a.jpg", []byte("one"), ts(2021, time.April, 10))
	h.fs.AddFile("/photos/y/a.jpg", []byte("two"), ts(2021, time.April, 11))
	h.decider.Folders["/photos/x"] = sorter.FolderSortIntoYears
	h.decider.Folders["/photos/y"] = sorter.FolderSortIntoYears

	if _, err := h.svc.Sort("/photos"); err != nil {
		t.Fatalf("Sort() error = %v", err)
	}
	if !h.fs.HasFile("/photos/2021/04-April/a.jpg") {
		t.Error("first file missing from destination")
	}
	if !h.fs.HasFile("/photos/2021/04-April/a_1.jpg") {
		t.Error("colliding file should get a numeric suffix")
	}
}

func TestService_Sort_NotADirectory(t *testing.T) {
	h := newHarness()
	h.fs.AddFile("/photos.jpg", []byte("a"), ts(2021, time.April, 10))

	if _, err := h.svc.Sort("/photos.jpg"); err == nil {
		t.Error("Sort() on a file should fail")
	}
}
