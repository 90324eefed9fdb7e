package lifecycle

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/invoice"
)

// Definition is the YAML form of an action, as written in config files.
type Definition struct {
	Key        string   `yaml:"key"`
	Label      string   `yaml:"label"`
	Variant    string   `yaml:"variant,omitempty"`
	Icon       string   `yaml:"icon,omitempty"`
	Membership string   `yaml:"membership"`
	Statuses   []string `yaml:"statuses"`
}

// DefinitionFile is a standalone actions file.
type DefinitionFile struct {
	Actions []Definition `yaml:"actions"`
}

// Descriptor converts the definition, collecting every conversion defect.
// A missing icon defaults to the generic glyph; a missing label defaults to
// the key.
func (d Definition) Descriptor() (ActionDescriptor, []error) {
	var errs []error
	key := strings.TrimSpace(d.Key)
	desc := ActionDescriptor{
		Key:   key,
		Label: strings.TrimSpace(d.Label),
		Icon:  icons.Icon(strings.ToLower(strings.TrimSpace(d.Icon))),
	}
	if desc.Label == "" {
		desc.Label = key
	}
	if desc.Icon == "" {
		desc.Icon = icons.Generic
	}
	variant, err := ParseVariant(d.Variant)
	if err != nil {
		errs = append(errs, err)
	}
	desc.Variant = variant
	mode, err := ParseMembership(d.Membership)
	if err != nil {
		errs = append(errs, err)
	}
	desc.Eligibility.Mode = mode
	for i, raw := range d.Statuses {
		status, err := invoice.ParseStatus(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("statuses[%d]: %w", i, err))
			continue
		}
		desc.Eligibility.Statuses = append(desc.Eligibility.Statuses, status)
	}
	return desc, errs
}

// Descriptors converts a list of definitions. Conversion and validation
// defects are reported together, prefixed with the definition index.
func Descriptors(defs []Definition) ([]ActionDescriptor, error) {
	var errs []error
	out := make([]ActionDescriptor, 0, len(defs))
	for i, def := range defs {
		desc, convErrs := def.Descriptor()
		for _, err := range convErrs {
			errs = append(errs, fmt.Errorf("actions[%d]: %w", i, err))
		}
		out = append(out, desc)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// LoadDefinitionFile reads a standalone actions file.
func LoadDefinitionFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lifecycle: read %s: %w", path, err)
	}
	var file DefinitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("lifecycle: parse %s: %w", path, err)
	}
	return file.Actions, nil
}

// DefinitionOf converts a descriptor back to its YAML form.
func DefinitionOf(a ActionDescriptor) Definition {
	statuses := make([]string, len(a.Eligibility.Statuses))
	for i, s := range a.Eligibility.Statuses {
		statuses[i] = s.String()
	}
	return Definition{
		Key:        a.Key,
		Label:      a.Label,
		Variant:    string(a.Variant),
		Icon:       string(a.Icon),
		Membership: string(a.Eligibility.Mode),
		Statuses:   statuses,
	}
}
