package icons

var lucideIconNames = map[Icon]string{
	Save:      "save",
	Draft:     "file-pen",
	Validate:  "check",
	Duplicate: "copy",
	Download:  "download",
	Delete:    "trash-2",
	Reset:     "rotate-ccw",
	Archive:   "archive",
	Invoice:   "receipt",
	Search:    "search",
	Settings:  "settings",
	Generic:   "sparkle",
}

// LucideName returns the Lucide icon name for an icon.
func LucideName(id Icon) (string, bool) {
	name, ok := lucideIconNames[id]
	return name, ok
}

// LucideNameOrDefault provides a stable Lucide name even when the icon is unknown.
func LucideNameOrDefault(id Icon) string {
	if name, ok := LucideName(id); ok {
		return name
	}
	return lucideIconNames[Generic]
}
