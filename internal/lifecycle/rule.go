package lifecycle

import (
	"fmt"
	"strings"

	"github.com/kingrea/tally/internal/invoice"
)

// Membership selects whether presence in or absence from the status set
// grants the action.
type Membership string

const (
	MembershipIn  Membership = "in"
	MembershipOut Membership = "out"
)

// ParseMembership accepts "in"/"out" in any case.
func ParseMembership(value string) (Membership, error) {
	m := Membership(strings.ToLower(strings.TrimSpace(value)))
	if !m.IsValid() {
		return "", fmt.Errorf("lifecycle: unknown membership %q", value)
	}
	return m, nil
}

// IsValid reports whether m is a known membership mode.
func (m Membership) IsValid() bool {
	return m == MembershipIn || m == MembershipOut
}

// Eligibility is the rule attached to an action. Statuses may contain
// invoice.StatusUnset to address records without a status.
type Eligibility struct {
	Mode     Membership
	Statuses []invoice.Status
}

// In builds an IN rule over statuses.
func In(statuses ...invoice.Status) Eligibility {
	return Eligibility{Mode: MembershipIn, Statuses: statuses}
}

// Out builds an OUT rule over statuses. Out() with no statuses is always
// satisfied.
func Out(statuses ...invoice.Status) Eligibility {
	return Eligibility{Mode: MembershipOut, Statuses: statuses}
}

// Allows evaluates the rule for the current status.
func (e Eligibility) Allows(current invoice.Status) bool {
	member := e.contains(current)
	if e.Mode == MembershipIn {
		return member
	}
	return !member
}

func (e Eligibility) contains(current invoice.Status) bool {
	for _, s := range e.Statuses {
		if s == current {
			return true
		}
	}
	return false
}

func (e Eligibility) clone() Eligibility {
	return Eligibility{Mode: e.Mode, Statuses: append([]invoice.Status(nil), e.Statuses...)}
}

// String renders the rule as "in{unset,draft}".
func (e Eligibility) String() string {
	names := make([]string, len(e.Statuses))
	for i, s := range e.Statuses {
		names[i] = s.String()
	}
	return fmt.Sprintf("%s{%s}", e.Mode, strings.Join(names, ","))
}
