package invoice

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

var markdownTemplate = template.Must(template.New("invoice").Parse(`# Invoice {{.DisplayNumber}}

| Field | Value |
|---|---|
| Supplier | {{.Supplier}} |
| Total | {{.FormatTotal}} |
| Issued | {{if .IssuedOn}}{{.IssuedOn}}{{else}}-{{end}} |
| Status | {{.Status.FriendlyName}} |
{{- if .Archived}}
| Archived | yes |
{{- end}}
`))

// RenderMarkdown renders a single invoice as a markdown document.
func RenderMarkdown(inv Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownTemplate.Execute(&buf, inv); err != nil {
		return nil, fmt.Errorf("invoice: render %s: %w", inv.DisplayNumber(), err)
	}
	return buf.Bytes(), nil
}

// ExportMarkdown writes the invoice to <dir>/<number>.md and returns the path.
// Records without a number cannot be exported.
func ExportMarkdown(dir string, inv Invoice) (string, error) {
	number := strings.TrimSpace(inv.Number)
	if number == "" {
		return "", fmt.Errorf("invoice: cannot export an unnumbered invoice")
	}
	data, err := RenderMarkdown(inv)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("invoice: ensure export dir: %w", err)
	}
	path := filepath.Join(dir, fileSafe(number)+".md")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("invoice: write export: %w", err)
	}
	return path, nil
}

func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
