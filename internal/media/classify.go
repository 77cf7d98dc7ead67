package media

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/rwcarlsen/goexif/exif"
)

// recordingMarkers are substrings of creation-software metadata values that
// identify a screen recording.
var recordingMarkers = []string{"avfoundation", "quicktime player", "screen"}

// Classifier derives the kind of a media file from its name, extension and
// embedded metadata. It is the only classifier allowed to read file contents;
// every decode failure degrades to KindPlain rather than propagating.
type Classifier struct {
	types Types
}

func NewClassifier(types Types) *Classifier {
	return &Classifier{types: types}
}

// Kind classifies path as a screenshot, screen recording or plain media.
func (c *Classifier) Kind(path string) Kind {
	ext := strings.ToLower(filepath.Ext(path))

	if c.types.imageExts[ext] {
		if ext == ".png" {
			return KindScreenshot
		}
		if softwareMentionsScreen(path) {
			return KindScreenshot
		}
		return KindPlain
	}

	if c.types.videoExts[ext] {
		if isRecordingByMetadata(path) || isRecordingByName(path) {
			return KindScreenRecording
		}
		return KindPlain
	}

	return KindPlain
}

// softwareMentionsScreen reports whether the image's EXIF Software tag
// contains "screen" (case-insensitive).
func softwareMentionsScreen(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return false
	}
	tag, err := x.Get(exif.Software)
	if err != nil {
		return false
	}
	software, err := tag.StringVal()
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(software), "screen")
}

// isRecordingByName checks the filename stem for a screen-recording marker.
func isRecordingByName(path string) bool {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	return strings.Contains(stem, "screenrecording") || strings.Contains(stem, "screen recording")
}

// isRecordingByMetadata decodes the MP4/MOV box tree and scans every ilst
// data value for a recording marker. QuickTime writes the capturing software
// under com.apple.quicktime.software; scanning all string values avoids
// depending on the keyed-metadata index layout.
func isRecordingByMetadata(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	parsed, err := mp4.DecodeFile(f)
	if err != nil || parsed == nil {
		return false
	}

	found := false
	for _, box := range parsed.Children {
		scanBoxes(box, &found)
		if found {
			return true
		}
	}
	return false
}

func scanBoxes(box mp4.Box, found *bool) {
	if *found || box == nil {
		return
	}
	if data, ok := box.(*mp4.DataBox); ok {
		value := strings.ToLower(string(data.Data))
		for _, marker := range recordingMarkers {
			if strings.Contains(value, marker) {
				*found = true
				return
			}
		}
	}
	if container, ok := box.(mp4.ContainerBox); ok {
		for _, child := range container.GetChildren() {
			scanBoxes(child, found)
		}
	}
}

// ExifDateTime returns the EXIF capture timestamp of an image, when present.
func ExifDateTime(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, err
	}
	return x.DateTime()
}
