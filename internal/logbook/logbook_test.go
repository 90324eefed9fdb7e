package logbook

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestLevelsAndFormat(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "logs", "activity.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	book.Warn("  archive %s  ", "INV-0001")
	book.Error("delete failed")
	lines, total := book.Tail(10)
	if total != 2 {
		t.Fatalf("total = %d", total)
	}
	if lines[0] != "2024-01-02T03:04:05Z WARN  archive INV-0001" {
		t.Fatalf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR delete failed") {
		t.Fatalf("unexpected line %q", lines[1])
	}
}

func TestTailOnMissingFileAndNil(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "activity.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	if lines, total := book.Tail(3); lines != nil || total != 0 {
		t.Fatalf("expected empty tail, got %v %d", lines, total)
	}
	var nilBook *Logbook
	nilBook.Info("ignored")
	if lines, total := nilBook.Tail(3); lines != nil || total != 0 {
		t.Fatalf("nil logbook tail should be empty")
	}
}

func TestRecentParsesEntries(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "activity.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	book.now = func() time.Time { return at }
	book.Info("Saved %s", "INV-0001")
	book.Warn("Save is not offered for paid invoices")
	f, err := os.OpenFile(book.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("hand written note\n")
	_ = f.Close()

	entries, total := book.Recent(5)
	if total != 3 || len(entries) != 3 {
		t.Fatalf("entries = %v, total = %d", entries, total)
	}
	want := []Entry{
		{At: at, Level: LevelInfo, Message: "Saved INV-0001"},
		{At: at, Level: LevelWarn, Message: "Save is not offered for paid invoices"},
		{Level: LevelInfo, Message: "hand written note"},
	}
	for i := range want {
		if !entries[i].At.Equal(want[i].At) || entries[i].Level != want[i].Level || entries[i].Message != want[i].Message {
			t.Fatalf("entry %d = %+v, want %+v", i, entries[i], want[i])
		}
	}
}

func TestParseEntryRejectsOtherShapes(t *testing.T) {
	for _, line := range []string{"", "no-timestamp INFO x", "2024-01-02T03:04:05Z DEBUG x"} {
		if _, ok := ParseEntry(line); ok {
			t.Fatalf("ParseEntry(%q) should fail", line)
		}
	}
	entry, ok := ParseEntry("2024-01-02T03:04:05Z ERROR delete failed")
	if !ok || entry.Level != LevelError || entry.Message != "delete failed" {
		t.Fatalf("ParseEntry = %+v, %v", entry, ok)
	}
	if entry.String() != "2024-01-02T03:04:05Z ERROR delete failed" {
		t.Fatalf("String = %q", entry.String())
	}
}
