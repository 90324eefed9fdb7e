// Package invoice models expense invoices, their lifecycle status, and the
// YAML-backed book that supplies the current status of each record.
package invoice

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status is the lifecycle stage of an invoice. The zero value StatusUnset
// means no status has been assigned yet (the record was never saved).
type Status string

const (
	StatusUnset     Status = ""
	StatusDraft     Status = "draft"
	StatusValidated Status = "validated"
	StatusPaid      Status = "paid"
)

var statusOrder = []Status{
	StatusDraft,
	StatusValidated,
	StatusPaid,
}

// Statuses returns the concrete statuses in lifecycle order. The unset
// sentinel is not included.
func Statuses() []Status {
	return append([]Status(nil), statusOrder...)
}

// IsValid reports whether s is a concrete status or the unset sentinel.
func (s Status) IsValid() bool {
	if s == StatusUnset {
		return true
	}
	for _, candidate := range statusOrder {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsUnset reports whether no status has been assigned.
func (s Status) IsUnset() bool {
	return s == StatusUnset
}

// String returns the wire name, or "unset" for the sentinel.
func (s Status) String() string {
	if s.IsUnset() {
		return "unset"
	}
	return string(s)
}

// FriendlyName returns a short English display name.
func (s Status) FriendlyName() string {
	switch s {
	case StatusUnset:
		return "New"
	case StatusDraft:
		return "Draft"
	case StatusValidated:
		return "Validated"
	case StatusPaid:
		return "Paid"
	default:
		return string(s)
	}
}

// MessageKey is the i18n catalog key for the status name.
func (s Status) MessageKey() string {
	return "status." + s.String()
}

// ParseStatus converts user or file input into a Status. Blank input and the
// aliases "unset", "none", and "undefined" map to StatusUnset.
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", "unset", "none", "undefined":
		return StatusUnset, nil
	}
	status := Status(normalized)
	if !status.IsValid() {
		return StatusUnset, fmt.Errorf("invoice: unknown status %q", value)
	}
	return status, nil
}

// UnmarshalYAML accepts any spelling ParseStatus understands.
func (s *Status) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
