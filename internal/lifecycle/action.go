package lifecycle

import (
	"fmt"
	"strings"

	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/invoice"
)

// Variant is the visual style tag of an action button.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantOutline Variant = "outline"
)

// ParseVariant accepts "default"/"outline" in any case; blank means default.
func ParseVariant(value string) (Variant, error) {
	v := Variant(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return VariantDefault, nil
	}
	if !v.IsValid() {
		return "", fmt.Errorf("lifecycle: unknown variant %q", value)
	}
	return v, nil
}

// IsValid reports whether v is a known variant.
func (v Variant) IsValid() bool {
	return v == VariantDefault || v == VariantOutline
}

// ActionDescriptor is one entry of the action registry.
type ActionDescriptor struct {
	// Key identifies the action, e.g. "validated".
	Key string
	// Label is a message key resolved through the i18n catalogs. Keys that
	// are not in a catalog render verbatim.
	Label       string
	Variant     Variant
	Icon        icons.Icon
	Eligibility Eligibility
}

// IsEligible reports whether action may be offered for an invoice whose
// current status is current. invoice.StatusUnset is a regular input.
func IsEligible(action ActionDescriptor, current invoice.Status) bool {
	return action.Eligibility.Allows(current)
}

func (a ActionDescriptor) clone() ActionDescriptor {
	a.Eligibility = a.Eligibility.clone()
	return a
}

// Validate reports every authoring defect in the descriptor.
func (a ActionDescriptor) Validate() []error {
	var errs []error
	key := strings.TrimSpace(a.Key)
	if key == "" {
		errs = append(errs, fmt.Errorf("key is required"))
		key = "(unnamed)"
	} else if key != a.Key {
		errs = append(errs, fmt.Errorf("%s: key must not contain surrounding whitespace", key))
	}
	if strings.TrimSpace(a.Label) == "" {
		errs = append(errs, fmt.Errorf("%s: label is required", key))
	}
	if !a.Variant.IsValid() {
		errs = append(errs, fmt.Errorf("%s: variant %q must be default or outline", key, a.Variant))
	}
	if !icons.Valid(a.Icon) {
		errs = append(errs, fmt.Errorf("%s: unknown icon %q", key, a.Icon))
	}
	if !a.Eligibility.Mode.IsValid() {
		errs = append(errs, fmt.Errorf("%s: membership %q must be in or out", key, a.Eligibility.Mode))
	}
	seen := make(map[invoice.Status]struct{}, len(a.Eligibility.Statuses))
	for i, s := range a.Eligibility.Statuses {
		if !s.IsValid() {
			errs = append(errs, fmt.Errorf("%s: statuses[%d] %q is not a known status", key, i, string(s)))
			continue
		}
		if _, dup := seen[s]; dup {
			errs = append(errs, fmt.Errorf("%s: statuses[%d] repeats %s", key, i, s))
		}
		seen[s] = struct{}{}
	}
	if a.Eligibility.Mode == MembershipIn && len(a.Eligibility.Statuses) == 0 {
		errs = append(errs, fmt.Errorf("%s: an in rule with no statuses can never be satisfied", key))
	}
	return errs
}
