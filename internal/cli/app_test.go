package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kingrea/tally/internal/config"
)

const sampleBook = `version: 1
invoices:
  - id: a
    number: INV-0001
    supplier: Atelier Nord
    total_cents: 12950
    status: draft
  - id: b
    number: INV-0002
    supplier: Bureau Sud
    total_cents: 4000
    status: validated
  - id: c
    number: INV-0003
    supplier: Cafe Lumen
    total_cents: 990
    status: paid
    archived: true
`

func newProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	tallyDir := filepath.Join(dir, config.TallyDir)
	if err := os.MkdirAll(tallyDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(tallyDir, name), []byte(contents), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestApp_Version(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(out, "tally version") {
		t.Errorf("version output missing 'tally version', got: %s", out)
	}
}

func TestApp_RootLaunchesUI(t *testing.T) {
	dir := t.TempDir()
	var launched string
	app := New().WithOutput(&bytes.Buffer{}, &bytes.Buffer{})
	app.launch = func(_ context.Context, projectDir string) error {
		launched = projectDir
		return nil
	}
	if err := app.ExecuteWithArgs(context.Background(), []string{"-C", dir}); err != nil {
		t.Fatalf("root command failed: %v", err)
	}
	if launched != dir {
		t.Fatalf("launched with %q, want %q", launched, dir)
	}
}

func TestApp_Init(t *testing.T) {
	dir := t.TempDir()
	if _, err := run(t, "init", "-C", dir); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, config.TallyDir, "config.yaml")); err != nil {
		t.Fatalf("expected config.yaml: %v", err)
	}
}

func TestApp_ActionsForStatus(t *testing.T) {
	dir := newProject(t, nil)
	out, err := run(t, "actions", "-C", dir, "--status", "unset")
	if err != nil {
		t.Fatalf("actions failed: %v", err)
	}
	for _, want := range []string{"save", "draft", "validated", "archive", "in{unset,draft}", "out{}"} {
		if !strings.Contains(out, want) {
			t.Errorf("unset actions missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"duplicate", "download", "delete", "reset"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("unset actions should not include %q:\n%s", unwanted, out)
		}
	}
}

func TestApp_ActionsLocalized(t *testing.T) {
	dir := newProject(t, nil)
	out, err := run(t, "actions", "-C", dir, "--status", "draft", "--locale", "fr-FR")
	if err != nil {
		t.Fatalf("actions failed: %v", err)
	}
	if !strings.Contains(out, "Valider") {
		t.Errorf("expected french labels:\n%s", out)
	}
}

func TestApp_ActionsMatrix(t *testing.T) {
	dir := newProject(t, nil)
	out, err := run(t, "actions", "-C", dir, "--matrix")
	if err != nil {
		t.Fatalf("matrix failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 9 {
		t.Fatalf("expected header plus 8 actions, got %d:\n%s", len(lines), out)
	}
	if fields := strings.Fields(lines[len(lines)-1]); strings.Join(fields, " ") != "archive yes yes yes yes" {
		t.Errorf("archive row = %q", lines[len(lines)-1])
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "save yes yes - -" {
		t.Errorf("save row = %q", lines[1])
	}
}

func TestApp_ActionsRejectsUnknownStatus(t *testing.T) {
	dir := newProject(t, nil)
	if _, err := run(t, "actions", "-C", dir, "--status", "sent"); err == nil {
		t.Fatalf("expected unknown status to fail")
	}
}

func TestApp_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	if err := os.WriteFile(good, []byte(`actions:
  - key: remind
    label: Send reminder
    variant: outline
    icon: generic
    membership: in
    statuses: [validated]
`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", good)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "OK:") || !strings.Contains(out, "9 actions") {
		t.Errorf("unexpected output: %s", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte(`actions:
  - key: save
    membership: out
  - key: empty
    membership: in
    statuses: []
`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "validate", bad)
	if err == nil {
		t.Fatalf("expected validation to fail:\n%s", out)
	}
	if !strings.Contains(out, "Invalid:") || !strings.Contains(out, `"save"`) {
		t.Errorf("expected duplicate key report, got: %s", out)
	}
	if _, err := run(t, "validate", "--standalone", bad); err == nil {
		t.Fatalf("empty in rule must fail even standalone")
	}
}

func TestApp_ValidateReportsEveryEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.yaml")
	if err := os.WriteFile(path, []byte(`actions:
  - key: a
    membership: sideways
  - key: b
    icon: rocket
    membership: out
`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "validate", path)
	if err == nil {
		t.Fatalf("expected validation to fail:\n%s", out)
	}
	for _, want := range []string{`"sideways"`, `unknown icon "rocket"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s, got: %s", want, out)
		}
	}
}

func TestApp_ValidateProjectConfig(t *testing.T) {
	dir := newProject(t, map[string]string{"config.yaml": "version: 1\n"})
	out, err := run(t, "validate", "-C", dir)
	if err != nil {
		t.Fatalf("validate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "8 actions") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestApp_ListAndExport(t *testing.T) {
	dir := newProject(t, map[string]string{"invoices.yaml": sampleBook})
	out, err := run(t, "list", "-C", dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "INV-0001") || !strings.Contains(out, "Bureau Sud") {
		t.Errorf("list missing invoices:\n%s", out)
	}
	if strings.Contains(out, "INV-0003") {
		t.Errorf("archived invoice listed:\n%s", out)
	}
	if !strings.Contains(out, "duplicate,download,delete,reset,archive") {
		t.Errorf("validated invoice should list its actions:\n%s", out)
	}

	out, err = run(t, "list", "-C", dir, "--archived")
	if err != nil || !strings.Contains(out, "INV-0003") {
		t.Fatalf("archived list: %v\n%s", err, out)
	}

	out, err = run(t, "export", "-C", dir, "inv-0002")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	path := strings.TrimSpace(out)
	if filepath.Base(path) != "INV-0002.md" {
		t.Fatalf("unexpected export path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("export missing: %v", err)
	}
	if _, err := run(t, "export", "-C", dir, "INV-0099"); err == nil {
		t.Fatalf("expected unknown invoice to fail")
	}
}
