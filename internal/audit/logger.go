package audit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Entry represents a single audit log entry for one scanned message.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	ScanID       string    `json:"scan_id"`
	Source       string    `json:"source,omitempty"` // "api", "cli"
	Verdict      string    `json:"verdict"`
	RuleName     string    `json:"rule_name,omitempty"`
	RiskLevel    string    `json:"risk_level"`
	ScamScore    int       `json:"scam_score"`
	Language     string    `json:"language"`
	ScamType     string    `json:"scam_type,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	Keywords     []string  `json:"keywords,omitempty"`
	MessageBytes int       `json:"message_bytes"`
	Message      string    `json:"message,omitempty"`
	DurationUS   int64     `json:"duration_us,omitempty"`
}

// Logger writes JSON-line audit log entries.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	enc    *json.Encoder

	// IncludeMessage records the raw message text in each entry.
	IncludeMessage bool
}

// NewLogger creates a new audit logger writing to the given writer.
func NewLogger(w io.Writer) *Logger {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Logger{
		writer: w,
		enc:    enc,
	}
}

// NewFileLogger creates a logger that writes to a file at the given path.
// Creates the file if it doesn't exist, appends if it does.
func NewFileLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return NewLogger(f), nil
}

// NewStderrLogger creates a logger that writes to stderr.
func NewStderrLogger() *Logger {
	return NewLogger(os.Stderr)
}

// Log writes a single audit entry as a JSON line.
func (l *Logger) Log(entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if !l.IncludeMessage {
		entry.Message = ""
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying writer when it is a file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if f, ok := l.writer.(*os.File); ok && f != os.Stderr && f != os.Stdout {
		return f.Close()
	}
	return nil
}

// NopLogger returns a logger that discards all entries.
func NopLogger() *Logger {
	return NewLogger(io.Discard)
}
