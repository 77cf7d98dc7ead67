// Package media classifies media files and folder names and resolves file
// timestamps. Everything here except the file-content classifier is a pure
// function of its inputs.
package media

import (
	"path/filepath"
	"strings"
	"time"
)

// Kind is the derived classification of a media file.
// It is always recomputed from the file, never stored.
type Kind int

const (
	KindPlain Kind = iota
	KindScreenshot
	KindScreenRecording
)

func (k Kind) String() string {
	switch k {
	case KindScreenshot:
		return "screenshot"
	case KindScreenRecording:
		return "screen_recording"
	default:
		return "plain"
	}
}

// FolderClass is the classification of a folder basename.
type FolderClass int

const (
	FolderUnclassified FolderClass = iota
	FolderGenerated
	FolderYear
	FolderMonth
	FolderBackup
)

func (c FolderClass) String() string {
	switch c {
	case FolderGenerated:
		return "generated"
	case FolderYear:
		return "year"
	case FolderMonth:
		return "month"
	case FolderBackup:
		return "backup"
	default:
		return "unclassified"
	}
}

// Types holds the recognized extension and name sets. It is built once from
// config and passed into every component that needs it.
type Types struct {
	imageExts    map[string]bool
	videoExts    map[string]bool
	sidecarExts  map[string]bool
	sidecarNames map[string]bool
	generated    map[string]bool
}

// NewTypes builds a Types value. Extensions are normalized to lowercase with
// a leading dot; names are matched case-insensitively.
func NewTypes(images, videos, sidecarExts, sidecarNames, generated []string) Types {
	t := Types{
		imageExts:    make(map[string]bool, len(images)),
		videoExts:    make(map[string]bool, len(videos)),
		sidecarExts:  make(map[string]bool, len(sidecarExts)),
		sidecarNames: make(map[string]bool, len(sidecarNames)),
		generated:    make(map[string]bool, len(generated)),
	}
	for _, e := range images {
		t.imageExts[normalizeExt(e)] = true
	}
	for _, e := range videos {
		t.videoExts[normalizeExt(e)] = true
	}
	for _, e := range sidecarExts {
		t.sidecarExts[normalizeExt(e)] = true
	}
	for _, n := range sidecarNames {
		t.sidecarNames[strings.ToLower(n)] = true
	}
	for _, n := range generated {
		t.generated[n] = true
	}
	return t
}

func normalizeExt(e string) string {
	e = strings.ToLower(strings.TrimSpace(e))
	if e != "" && !strings.HasPrefix(e, ".") {
		e = "." + e
	}
	return e
}

// IsImage reports whether the path has a recognized image extension.
func (t Types) IsImage(path string) bool {
	return t.imageExts[strings.ToLower(filepath.Ext(path))]
}

// IsVideo reports whether the path has a recognized video extension.
func (t Types) IsVideo(path string) bool {
	return t.videoExts[strings.ToLower(filepath.Ext(path))]
}

// IsMedia reports whether the path has a recognized image or video extension.
func (t Types) IsMedia(path string) bool {
	return t.IsImage(path) || t.IsVideo(path)
}

// IsSidecar reports whether the basename identifies a disposable companion
// file, by exact name or by extension.
func (t Types) IsSidecar(name string) bool {
	lower := strings.ToLower(name)
	if t.sidecarNames[lower] {
		return true
	}
	return t.sidecarExts[strings.ToLower(filepath.Ext(name))]
}

// IsGenerated reports whether the name is one of the buckets the engine
// itself creates (Screenshots, ScreenRecordings, Memes by default).
func (t Types) IsGenerated(name string) bool {
	return t.generated[name]
}

// GeneratedNames returns the configured bucket names.
func (t Types) GeneratedNames() []string {
	names := make([]string, 0, len(t.generated))
	for n := range t.generated {
		names = append(names, n)
	}
	return names
}

// Date is a calendar date without a time component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Valid reports whether the date names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Year() == d.Year && t.Month() == d.Month && t.Day() == d.Day
}

func (d Date) String() string {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}
