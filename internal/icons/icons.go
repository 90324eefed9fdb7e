// Package icons defines the symbolic glyph set used by invoice actions and
// maps it to Lucide icon names (web) and single-rune glyphs (terminal).
package icons

// Icon is a symbolic reference to a glyph.
type Icon string

const (
	Save      Icon = "save"
	Draft     Icon = "draft"
	Validate  Icon = "validate"
	Duplicate Icon = "duplicate"
	Download  Icon = "download"
	Delete    Icon = "delete"
	Reset     Icon = "reset"
	Archive   Icon = "archive"
	Invoice   Icon = "invoice"
	Search    Icon = "search"
	Settings  Icon = "settings"
	Generic   Icon = "generic"
)

// Definition describes a core icon entry.
type Definition struct {
	ID          Icon
	Name        string
	Description string
	Glyph       string
}

var catalog = []Definition{
	{ID: Save, Name: "Save", Description: "Persist the current record.", Glyph: "◆"},
	{ID: Draft, Name: "Draft", Description: "Keep the record as a draft.", Glyph: "✎"},
	{ID: Validate, Name: "Validate", Description: "Lock the record for payment.", Glyph: "✔"},
	{ID: Duplicate, Name: "Duplicate", Description: "Copy the record.", Glyph: "⧉"},
	{ID: Download, Name: "Download", Description: "Export the record.", Glyph: "↓"},
	{ID: Delete, Name: "Delete", Description: "Remove the record.", Glyph: "✖"},
	{ID: Reset, Name: "Reset", Description: "Return the record to draft.", Glyph: "↺"},
	{ID: Archive, Name: "Archive", Description: "Hide the record from active lists.", Glyph: "▤"},
	{ID: Invoice, Name: "Invoice", Description: "Invoice navigation entry.", Glyph: "▦"},
	{ID: Search, Name: "Search", Description: "Search and filter inputs.", Glyph: "⌕"},
	{ID: Settings, Name: "Settings", Description: "Configuration entry points.", Glyph: "⚙"},
	{ID: Generic, Name: "Generic", Description: "Default icon for uncategorized entries.", Glyph: "•"},
}

var byID = func() map[Icon]Definition {
	out := make(map[Icon]Definition, len(catalog))
	for _, def := range catalog {
		out[def.ID] = def
	}
	return out
}()

// Lookup returns the definition for an icon.
func Lookup(id Icon) (Definition, bool) {
	def, ok := byID[id]
	return def, ok
}

// Valid reports whether id belongs to the catalog.
func Valid(id Icon) bool {
	_, ok := Lookup(id)
	return ok
}

// Glyph returns the terminal glyph for id, falling back to the generic glyph.
func Glyph(id Icon) string {
	if def, ok := Lookup(id); ok {
		return def.Glyph
	}
	return byID[Generic].Glyph
}
