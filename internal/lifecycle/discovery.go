package lifecycle

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefinitionSource pairs the action definitions of one file with its path.
type DefinitionSource struct {
	Path    string
	Actions []Definition
}

// LoadDefinitionDir scans dir for *.yaml and *.yml action files and returns
// them sorted by path. Missing directories are treated as "no extra actions".
func LoadDefinitionDir(dir string) ([]DefinitionSource, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("lifecycle: read %s: %w", trimmed, err)
	}
	var sources []DefinitionSource
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		path := filepath.Join(trimmed, entry.Name())
		defs, err := LoadDefinitionFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, DefinitionSource{Path: filepath.Clean(path), Actions: defs})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].Path < sources[j].Path })
	return sources, nil
}

// DescriptorsFromSources converts every source in order. Defects are
// prefixed with the file they came from, and a key declared by two files is
// reported with both paths.
func DescriptorsFromSources(sources []DefinitionSource) ([]ActionDescriptor, error) {
	var (
		errs []error
		out  []ActionDescriptor
	)
	seen := make(map[string]string)
	for _, source := range sources {
		descs, err := Descriptors(source.Actions)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", source.Path, err))
			continue
		}
		for _, desc := range descs {
			if first, dup := seen[desc.Key]; dup && desc.Key != "" {
				errs = append(errs, fmt.Errorf("%s: action %q already declared in %s", source.Path, desc.Key, first))
				continue
			}
			seen[desc.Key] = source.Path
			out = append(out, desc)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
