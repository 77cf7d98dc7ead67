package testutil

import (
	"sync"

	"mediasort/internal/sorter"
)

// RecordingLogger captures log messages per level so tests can assert on
// what the engine reported.
type RecordingLogger struct {
	mu     sync.Mutex
	Debugs []string
	Infos  []string
	Warns  []string
	Errors []string
}

func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{}
}

func (l *RecordingLogger) add(dst *[]string, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	*dst = append(*dst, msg)
}

func (l *RecordingLogger) Debug(msg string, args ...any) { l.add(&l.Debugs, msg) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.add(&l.Infos, msg) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.add(&l.Warns, msg) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.add(&l.Errors, msg) }

// Compile-time check
var _ sorter.Logger = (*RecordingLogger)(nil)
