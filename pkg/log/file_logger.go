package log

import (
	"os"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// FileLogger appends events to a diagnostics file that Reader and
// fabneg log can replay. Safe for concurrent use.
//
// Logging never fails the negotiation that produced the event: events that
// are invalid, fail to encode, or arrive after Close are counted as dropped.
type FileLogger struct {
	path string

	mu      sync.Mutex
	file    *os.File
	enc     *cbor.Encoder
	written int
	dropped int
}

// NewFileLogger opens path for appending, creating it with mode 0644.
func NewFileLogger(path string) (*FileLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileLogger{
		path: path,
		file: f,
		enc:  eventEncMode.NewEncoder(f),
	}, nil
}

// Log implements Logger.
func (l *FileLogger) Log(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil || event.validate() != nil {
		l.dropped++
		return
	}
	if err := l.enc.Encode(event); err != nil {
		l.dropped++
		return
	}
	l.written++
}

// Path returns the diagnostics file.
func (l *FileLogger) Path() string {
	return l.path
}

// Counts reports how many events reached the file and how many were dropped.
func (l *FileLogger) Counts() (written, dropped int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.written, l.dropped
}

// Close closes the file. Later calls return nil.
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	l.enc = nil
	return err
}

var _ Logger = (*FileLogger)(nil)
