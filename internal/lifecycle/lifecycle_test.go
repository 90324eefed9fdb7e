package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/invoice"
)

var everyStatus = append([]invoice.Status{invoice.StatusUnset}, invoice.Statuses()...)

func action(key string, rule Eligibility) ActionDescriptor {
	return ActionDescriptor{Key: key, Label: key, Variant: VariantDefault, Icon: icons.Generic, Eligibility: rule}
}

func TestOutUnsetOffersEveryConcreteStatus(t *testing.T) {
	a := action("download", Out(invoice.StatusUnset))
	assert.False(t, IsEligible(a, invoice.StatusUnset))
	for _, s := range invoice.Statuses() {
		assert.True(t, IsEligible(a, s), "status %s", s)
	}
}

func TestInUnsetAndOneStatus(t *testing.T) {
	for _, x := range invoice.Statuses() {
		a := action("validated", In(invoice.StatusUnset, x))
		for _, s := range everyStatus {
			want := s == invoice.StatusUnset || s == x
			assert.Equal(t, want, IsEligible(a, s), "rule in{unset,%s} status %s", x, s)
		}
	}
}

func TestOutEmptySetIsAlwaysEligible(t *testing.T) {
	a := action("archive", Out())
	for _, s := range everyStatus {
		assert.True(t, IsEligible(a, s), "status %s", s)
	}
}

func TestIsEligibleIsDeterministic(t *testing.T) {
	for _, a := range DefaultActions() {
		for _, s := range everyStatus {
			first := IsEligible(a, s)
			for i := 0; i < 10; i++ {
				require.Equal(t, first, IsEligible(a, s), "%s/%s", a.Key, s)
			}
		}
	}
}

func TestEligiblePreservesDeclarationOrder(t *testing.T) {
	reg := Default()
	declared := reg.Keys()
	for _, s := range everyStatus {
		keys := keysOf(reg.Eligible(s))
		last := -1
		for _, key := range keys {
			pos := indexOf(declared, key)
			require.Greater(t, pos, last, "status %s: %v out of order", s, keys)
			last = pos
		}
	}
}

func TestDefaultTableUnsetScenario(t *testing.T) {
	reg := Default()
	got := keysOf(reg.Eligible(invoice.StatusUnset))
	assert.Equal(t, []string{ActionSave, ActionDraft, ActionValidated, ActionArchive}, got)
	for _, key := range []string{ActionDuplicate, ActionDownload, ActionDelete, ActionReset} {
		ok, err := reg.IsEligible(key, invoice.StatusUnset)
		require.NoError(t, err)
		assert.False(t, ok, "%s must not be offered before the invoice exists", key)
	}
}

func TestDefaultTableDraftScenario(t *testing.T) {
	reg := Default()
	got := keysOf(reg.Eligible(invoice.StatusDraft))
	assert.Equal(t, []string{
		ActionSave, ActionDraft, ActionValidated,
		ActionDuplicate, ActionDownload, ActionDelete,
		ActionArchive,
	}, got)
}

func TestDefaultTableValidatedAndPaid(t *testing.T) {
	reg := Default()
	want := []string{ActionDuplicate, ActionDownload, ActionDelete, ActionReset, ActionArchive}
	assert.Equal(t, want, keysOf(reg.Eligible(invoice.StatusValidated)))
	assert.Equal(t, want, keysOf(reg.Eligible(invoice.StatusPaid)))
}

func TestRegistryIsEligibleUnknownKey(t *testing.T) {
	_, err := Default().IsEligible("refund", invoice.StatusDraft)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}

func TestRegistryReturnsCopies(t *testing.T) {
	reg := Default()
	actions := reg.Actions()
	actions[0].Key = "mutated"
	actions[0].Eligibility.Statuses[0] = invoice.StatusPaid
	fresh, ok := reg.Lookup(ActionSave)
	require.True(t, ok)
	assert.Equal(t, ActionSave, fresh.Key)
	assert.Equal(t, invoice.StatusUnset, fresh.Eligibility.Statuses[0])

	eligible := reg.Eligible(invoice.StatusUnset)
	eligible[0].Eligibility.Statuses[0] = invoice.StatusPaid
	again, _ := reg.Lookup(ActionSave)
	assert.Equal(t, invoice.StatusUnset, again.Eligibility.Statuses[0])
}

func TestNewRegistryCopiesInput(t *testing.T) {
	input := []ActionDescriptor{action("x", In(invoice.StatusDraft))}
	reg, err := NewRegistry(input...)
	require.NoError(t, err)
	input[0].Eligibility.Statuses[0] = invoice.StatusPaid
	ok, err := reg.IsEligible("x", invoice.StatusDraft)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExtendLeavesReceiverUntouched(t *testing.T) {
	base := Default()
	extended, err := base.Extend(action("remind", Out(invoice.StatusUnset, invoice.StatusPaid)))
	require.NoError(t, err)
	assert.Equal(t, 8, base.Len())
	assert.Equal(t, 9, extended.Len())
	assert.Equal(t, "remind", extended.Keys()[8])
	_, ok := base.Lookup("remind")
	assert.False(t, ok)

	_, err = base.Extend(action(ActionSave, Out()))
	assert.Error(t, err, "duplicate key must be rejected")
}

func TestValidateDefinitionsReportsEveryDefect(t *testing.T) {
	bad := []ActionDescriptor{
		{Key: "", Label: "", Variant: "ghost", Icon: "rocket", Eligibility: Eligibility{Mode: "maybe"}},
		{Key: "dup", Label: "dup", Variant: VariantDefault, Icon: icons.Generic, Eligibility: In(invoice.StatusDraft, invoice.StatusDraft)},
		{Key: "dup", Label: "dup", Variant: VariantDefault, Icon: icons.Generic, Eligibility: In()},
		{Key: "odd", Label: "odd", Variant: VariantOutline, Icon: icons.Generic, Eligibility: Out(invoice.Status("refunded"))},
	}
	errs := ValidateDefinitions(bad)
	// key, label, variant, icon, membership | repeat | empty in + duplicate key | unknown status
	assert.Len(t, errs, 9)

	_, err := NewRegistry(bad...)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNewRegistry(bad...) })
}

func TestDefaultActionsAreValid(t *testing.T) {
	assert.Empty(t, ValidateDefinitions(DefaultActions()))
}

func TestConcurrentReads(t *testing.T) {
	reg := Default()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := everyStatus[i%len(everyStatus)]
			for j := 0; j < 200; j++ {
				_ = reg.Eligible(s)
				_, _ = reg.Lookup(ActionArchive)
			}
		}(i)
	}
	wg.Wait()
}

func TestMatrix(t *testing.T) {
	rows := Default().Matrix(everyStatus)
	require.Len(t, rows, 8)
	assert.Equal(t, ActionArchive, rows[7].Action.Key)
	assert.Equal(t, []bool{true, true, true, true}, rows[7].Eligible)
	assert.Equal(t, []bool{false, false, true, true}, rows[6].Eligible, "reset")
}

func TestEligibilityString(t *testing.T) {
	assert.Equal(t, "in{unset,draft}", In(invoice.StatusUnset, invoice.StatusDraft).String())
	assert.Equal(t, "out{}", Out().String())
}

func TestDefinitionRoundTrip(t *testing.T) {
	for _, a := range DefaultActions() {
		desc, errs := DefinitionOf(a).Descriptor()
		require.Empty(t, errs, a.Key)
		assert.Equal(t, a, desc)
	}
}

func TestLoadDefinitionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "actions.yaml")
	contents := `actions:
  - key: remind
    label: Send reminder
    variant: Outline
    icon: generic
    membership: OUT
    statuses: [undefined, paid]
  - key: broken
    membership: sideways
    statuses: [refunded]
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	defs, err := LoadDefinitionFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	_, err = Descriptors(defs)
	require.Error(t, err)

	descs, err := Descriptors(defs[:1])
	require.NoError(t, err)
	remind := descs[0]
	assert.Equal(t, VariantOutline, remind.Variant)
	assert.Equal(t, Out(invoice.StatusUnset, invoice.StatusPaid), remind.Eligibility)
	assert.Equal(t, "Send reminder", remind.Label)
}

func keysOf(actions []ActionDescriptor) []string {
	out := make([]string, len(actions))
	for i, a := range actions {
		out[i] = a.Key
	}
	return out
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
