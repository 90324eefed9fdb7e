package invoice

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportMarkdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	inv := Invoice{
		ID:         "a",
		Number:     "INV 0003",
		Supplier:   "Atelier Nord",
		TotalCents: 12950,
		IssuedOn:   "2024-02-01",
		Status:     StatusValidated,
	}
	path, err := ExportMarkdown(dir, inv)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "INV_0003.md" {
		t.Fatalf("unexpected export name %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	doc := string(data)
	for _, want := range []string{"# Invoice INV 0003", "| Supplier | Atelier Nord |", "| Total | 129.50 EUR |", "| Status | Validated |"} {
		if !strings.Contains(doc, want) {
			t.Fatalf("export missing %q:\n%s", want, doc)
		}
	}
	if strings.Contains(doc, "Archived") {
		t.Fatalf("non-archived invoice should not mention archive:\n%s", doc)
	}
}

func TestExportMarkdownRequiresNumber(t *testing.T) {
	if _, err := ExportMarkdown(t.TempDir(), Invoice{ID: "x"}); err == nil {
		t.Fatalf("expected unnumbered export to fail")
	}
}
