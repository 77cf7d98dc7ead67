package testutil

import (
	"path/filepath"

	"mediasort/internal/media"
	"mediasort/internal/sorter"
)

// StubClassifier classifies by exact path lookup, falling back to the
// basename so a file keeps its kind after the engine moves it. Unknown
// paths are plain.
type StubClassifier struct {
	Kinds map[string]media.Kind
}

func NewStubClassifier() *StubClassifier {
	return &StubClassifier{Kinds: map[string]media.Kind{}}
}

func (c *StubClassifier) Kind(path string) media.Kind {
	if k, ok := c.Kinds[path]; ok {
		return k
	}
	return c.Kinds[filepath.Base(path)]
}

// Compile-time check
var _ sorter.Classifier = (*StubClassifier)(nil)
