package lifecycle

import (
	"github.com/kingrea/tally/internal/icons"
	"github.com/kingrea/tally/internal/invoice"
)

// Keys of the built-in expense invoice actions.
const (
	ActionSave      = "save"
	ActionDraft     = "draft"
	ActionValidated = "validated"
	ActionDuplicate = "duplicate"
	ActionDownload  = "download"
	ActionDelete    = "delete"
	ActionReset     = "reset"
	ActionArchive   = "archive"
)

// DefaultActions returns the built-in expense invoice table in display order.
func DefaultActions() []ActionDescriptor {
	unset := invoice.StatusUnset
	draft := invoice.StatusDraft
	return []ActionDescriptor{
		{Key: ActionSave, Label: "action.save", Variant: VariantDefault, Icon: icons.Save, Eligibility: In(unset, draft)},
		{Key: ActionDraft, Label: "action.draft", Variant: VariantOutline, Icon: icons.Draft, Eligibility: In(unset, draft)},
		{Key: ActionValidated, Label: "action.validated", Variant: VariantDefault, Icon: icons.Validate, Eligibility: In(unset, draft)},
		{Key: ActionDuplicate, Label: "action.duplicate", Variant: VariantOutline, Icon: icons.Duplicate, Eligibility: Out(unset)},
		{Key: ActionDownload, Label: "action.download", Variant: VariantOutline, Icon: icons.Download, Eligibility: Out(unset)},
		{Key: ActionDelete, Label: "action.delete", Variant: VariantOutline, Icon: icons.Delete, Eligibility: Out(unset)},
		{Key: ActionReset, Label: "action.reset", Variant: VariantOutline, Icon: icons.Reset, Eligibility: Out(unset, draft)},
		// Offered for every status, including records that were never saved.
		{Key: ActionArchive, Label: "action.archive", Variant: VariantOutline, Icon: icons.Archive, Eligibility: Out()},
	}
}

var defaultRegistry = MustNewRegistry(DefaultActions()...)

// Default returns the process-wide built-in registry.
func Default() *Registry {
	return defaultRegistry
}
