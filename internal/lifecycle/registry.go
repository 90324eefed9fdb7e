package lifecycle

import (
	"errors"
	"fmt"

	"github.com/kingrea/tally/internal/invoice"
)

// ErrUnknownAction is returned when a key is not present in the registry.
var ErrUnknownAction = errors.New("lifecycle: unknown action")

// Registry is an ordered, immutable set of action descriptors. The zero
// value is an empty registry.
type Registry struct {
	actions []ActionDescriptor
	index   map[string]int
}

// NewRegistry validates the descriptors and freezes them in declaration
// order. Every defect is reported, joined into one error.
func NewRegistry(actions ...ActionDescriptor) (*Registry, error) {
	if errs := ValidateDefinitions(actions); len(errs) > 0 {
		return nil, fmt.Errorf("lifecycle: invalid registry: %w", errors.Join(errs...))
	}
	r := &Registry{
		actions: make([]ActionDescriptor, len(actions)),
		index:   make(map[string]int, len(actions)),
	}
	for i, action := range actions {
		r.actions[i] = action.clone()
		r.index[action.Key] = i
	}
	return r, nil
}

// MustNewRegistry panics if NewRegistry fails.
func MustNewRegistry(actions ...ActionDescriptor) *Registry {
	r, err := NewRegistry(actions...)
	if err != nil {
		panic(err)
	}
	return r
}

// ValidateDefinitions checks each descriptor plus cross-entry constraints
// (unique keys) and returns every defect found.
func ValidateDefinitions(actions []ActionDescriptor) []error {
	var errs []error
	seen := make(map[string]int, len(actions))
	for i, action := range actions {
		for _, err := range action.Validate() {
			errs = append(errs, fmt.Errorf("actions[%d]: %w", i, err))
		}
		if action.Key == "" {
			continue
		}
		if first, dup := seen[action.Key]; dup {
			errs = append(errs, fmt.Errorf("actions[%d]: key %q duplicates actions[%d]", i, action.Key, first))
			continue
		}
		seen[action.Key] = i
	}
	return errs
}

// Extend returns a new registry holding the receiver's actions followed by
// extra. The receiver is left untouched.
func (r *Registry) Extend(extra ...ActionDescriptor) (*Registry, error) {
	combined := make([]ActionDescriptor, 0, r.Len()+len(extra))
	combined = append(combined, r.Actions()...)
	combined = append(combined, extra...)
	return NewRegistry(combined...)
}

// Len reports the number of actions.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.actions)
}

// Actions returns a copy of every descriptor in declaration order.
func (r *Registry) Actions() []ActionDescriptor {
	if r == nil {
		return nil
	}
	out := make([]ActionDescriptor, len(r.actions))
	for i, action := range r.actions {
		out[i] = action.clone()
	}
	return out
}

// Keys returns the action keys in declaration order.
func (r *Registry) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.actions))
	for i, action := range r.actions {
		keys[i] = action.Key
	}
	return keys
}

// Lookup returns the descriptor registered under key.
func (r *Registry) Lookup(key string) (ActionDescriptor, bool) {
	if r == nil {
		return ActionDescriptor{}, false
	}
	idx, ok := r.index[key]
	if !ok {
		return ActionDescriptor{}, false
	}
	return r.actions[idx].clone(), true
}

// IsEligible resolves key and evaluates it against current. The error is
// only ever ErrUnknownAction.
func (r *Registry) IsEligible(key string, current invoice.Status) (bool, error) {
	action, ok := r.Lookup(key)
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownAction, key)
	}
	return IsEligible(action, current), nil
}

// Eligible returns the actions offered for current, in declaration order.
func (r *Registry) Eligible(current invoice.Status) []ActionDescriptor {
	if r == nil {
		return nil
	}
	var out []ActionDescriptor
	for _, action := range r.actions {
		if IsEligible(action, current) {
			out = append(out, action.clone())
		}
	}
	return out
}

// Matrix evaluates every action against every status in statuses and
// returns one row per action, in declaration order.
func (r *Registry) Matrix(statuses []invoice.Status) []MatrixRow {
	if r == nil {
		return nil
	}
	rows := make([]MatrixRow, len(r.actions))
	for i, action := range r.actions {
		cells := make([]bool, len(statuses))
		for j, s := range statuses {
			cells[j] = IsEligible(action, s)
		}
		rows[i] = MatrixRow{Action: action.clone(), Eligible: cells}
	}
	return rows
}

// MatrixRow is one action's eligibility across a list of statuses.
type MatrixRow struct {
	Action   ActionDescriptor
	Eligible []bool
}
