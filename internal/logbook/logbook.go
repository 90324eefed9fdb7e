// Package logbook is the activity journal shown in the TUI. Every action a
// user runs against an invoice leaves one line in .tally/logs/activity.log.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Entry is one parsed journal line.
type Entry struct {
	At      time.Time
	Level   Level
	Message string
}

// String renders the entry in its on-disk form.
func (e Entry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.At.UTC().Format(time.RFC3339), string(e.Level), e.Message)
}

// ParseEntry reads a line written by Append. Lines in any other shape
// report false.
func ParseEntry(line string) (Entry, bool) {
	stamp, rest, ok := strings.Cut(line, " ")
	if !ok {
		return Entry{}, false
	}
	at, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return Entry{}, false
	}
	level, message, _ := strings.Cut(rest, " ")
	switch Level(level) {
	case LevelInfo, LevelWarn, LevelError:
	default:
		return Entry{}, false
	}
	return Entry{At: at, Level: Level(level), Message: strings.TrimSpace(message)}, true
}

// Logbook journals the actions a user triggered against invoices.
type Logbook struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// New creates a logbook that writes to the provided path.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &Logbook{path: path, now: time.Now}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append journals one entry. Write failures are dropped; the journal never
// blocks an invoice action.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := Entry{At: l.now(), Level: level, Message: strings.TrimSpace(message)}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(entry.String() + "\n")
}

// Tail returns up to maxLines of the most recent lines plus the total
// number of lines in the journal.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil, 0
	}
	defer file.Close()

	var lines []string
	total := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		total++
		lines = append(lines, scanner.Text())
		if len(lines) > maxLines {
			lines = lines[1:]
		}
	}
	if len(lines) == 0 {
		return nil, total
	}
	return lines, total
}

// Recent is Tail with each line parsed. Unparsable lines are kept as info
// entries carrying the raw text.
func (l *Logbook) Recent(maxEntries int) ([]Entry, int) {
	lines, total := l.Tail(maxEntries)
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entry, ok := ParseEntry(line)
		if !ok {
			entry = Entry{Level: LevelInfo, Message: line}
		}
		entries = append(entries, entry)
	}
	return entries, total
}

func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
