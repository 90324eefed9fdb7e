// Package logging records diagnostics for a tally session. The TUI owns the
// terminal while it runs, so reload and watch failures go to a file instead.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/tally/internal/config"
)

// Logger appends "[time] [session] message" lines to the project's
// diagnostics log. The session tag separates runs that share the file.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	session string
	now     func() time.Time
}

// New opens the diagnostics log of projectDir for appending.
func New(projectDir string) (*Logger, error) {
	path := config.DiagnosticsLogPath(projectDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open %s: %w", path, err)
	}
	return &Logger{
		file:    f,
		path:    path,
		session: uuid.NewString()[:8],
		now:     time.Now,
	}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Session returns the tag stamped on every line of this run.
func (l *Logger) Session() string {
	if l == nil {
		return ""
	}
	return l.session
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}

// Printf writes one line. Embedded newlines are flattened so a line is
// always one entry.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	line := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	line = strings.ReplaceAll(line, "\n", " | ")
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	fmt.Fprintf(l.file, "[%s] [%s] %s\n", l.now().Format(time.RFC3339), l.session, line)
}
